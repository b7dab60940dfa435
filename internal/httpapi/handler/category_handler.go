package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/middleware"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/service"
)

type CategoryHandler struct {
	svc service.CategoryService
}

func NewCategoryHandler(svc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.DELETE("/:slug", h.Delete)
}

func (h *CategoryHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)
	list, total, err := h.svc.List(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]dto.SlugItemResponse, 0, len(list))
	for _, item := range list {
		resp = append(resp, dto.CategoryFromModel(item))
	}
	c.JSON(http.StatusOK, dto.NewPaginated(resp, int(total), page, pageSize))
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.SlugItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := models.Category{Name: req.Name, Slug: req.Slug}
	if err := h.svc.Create(c.Request.Context(), middleware.ActorFromContext(c), &category); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CategoryFromModel(category))
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.ActorFromContext(c), c.Param("slug")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
