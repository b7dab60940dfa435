package models

import "time"

type Comment struct {
	ID       int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ReviewID int64     `json:"review_id" gorm:"not null;index"`
	AuthorID string    `json:"-" gorm:"type:uuid;not null;index"`
	Text     string    `json:"text" gorm:"size:1000;not null"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime;index"`

	// associations
	Review Review `json:"-" gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
	Author User   `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

// OwnerID satisfies access.Owned for object-level permission checks.
func (c *Comment) OwnerID() string {
	return c.AuthorID
}

func (Comment) TableName() string {
	return "comments"
}
