package models

import "time"

type Title struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"size:256;not null"`
	Year        int       `json:"year" gorm:"not null"`
	Description *string   `json:"description,omitempty" gorm:"type:text"`
	CategoryID  int64     `json:"-" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`

	// associations
	Category Category `json:"category" gorm:"foreignKey:CategoryID"`
	Genres   []Genre  `json:"genres" gorm:"many2many:title_genres"`
}

func (Title) TableName() string {
	return "titles"
}
