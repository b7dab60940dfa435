package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/middleware"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/service"
)

type GenreHandler struct {
	svc service.GenreService
}

func NewGenreHandler(svc service.GenreService) *GenreHandler {
	return &GenreHandler{svc: svc}
}

func (h *GenreHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.DELETE("/:slug", h.Delete)
}

func (h *GenreHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)
	list, total, err := h.svc.List(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]dto.SlugItemResponse, 0, len(list))
	for _, item := range list {
		resp = append(resp, dto.GenreFromModel(item))
	}
	c.JSON(http.StatusOK, dto.NewPaginated(resp, int(total), page, pageSize))
}

func (h *GenreHandler) Create(c *gin.Context) {
	var req dto.SlugItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	genre := models.Genre{Name: req.Name, Slug: req.Slug}
	if err := h.svc.Create(c.Request.Context(), middleware.ActorFromContext(c), &genre); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.GenreFromModel(genre))
}

func (h *GenreHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.ActorFromContext(c), c.Param("slug")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
