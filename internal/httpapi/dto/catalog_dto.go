package dto

import "reviewhub/internal/httpapi/models"

// SlugItemRequest creates a category or genre.
type SlugItemRequest struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50"`
}

// SlugItemResponse is the public category/genre shape; the numeric id is
// not exposed, lookup happens by slug.
type SlugItemResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func CategoryFromModel(c models.Category) SlugItemResponse {
	return SlugItemResponse{Name: c.Name, Slug: c.Slug}
}

func GenreFromModel(g models.Genre) SlugItemResponse {
	return SlugItemResponse{Name: g.Name, Slug: g.Slug}
}
