package dto

import "reviewhub/internal/httpapi/models"

// TitleRequest creates or updates a title. Category and genres are
// referenced by slug. Year is unbound here: zero and negative years are
// legal, the validator only caps it at the current year.
type TitleRequest struct {
	Name        string   `json:"name" binding:"required,max=256"`
	Year        int      `json:"year"`
	Description *string  `json:"description"`
	Category    string   `json:"category" binding:"required"`
	Genres      []string `json:"genre"`
}

// TitleResponse includes the rating derived from review scores; null
// when the title has no reviews yet.
type TitleResponse struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Year        int                `json:"year"`
	Rating      *float64           `json:"rating"`
	Description *string            `json:"description,omitempty"`
	Genres      []SlugItemResponse `json:"genre"`
	Category    SlugItemResponse   `json:"category"`
}

func TitleFromModel(t *models.Title, rating *float64) TitleResponse {
	genres := make([]SlugItemResponse, 0, len(t.Genres))
	for _, g := range t.Genres {
		genres = append(genres, GenreFromModel(g))
	}
	return TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      rating,
		Description: t.Description,
		Genres:      genres,
		Category:    CategoryFromModel(t.Category),
	}
}
