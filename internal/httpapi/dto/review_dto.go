package dto

import (
	"time"

	"reviewhub/internal/httpapi/models"
)

// ReviewRequest creates or updates a review. Score carries no binding
// tag: the mutation validator owns the bounds check so the field error
// and its message stay stable, even for a zero score.
type ReviewRequest struct {
	Text  string `json:"text" binding:"required,max=2000"`
	Score int    `json:"score"`
}

type ReviewResponse struct {
	ID      int64     `json:"id"`
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

func ReviewFromModel(r *models.Review) ReviewResponse {
	return ReviewResponse{
		ID:      r.ID,
		Author:  r.Author.Username,
		Text:    r.Text,
		Score:   r.Score,
		PubDate: r.PubDate,
	}
}
