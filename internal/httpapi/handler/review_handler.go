package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/middleware"
	"reviewhub/internal/httpapi/service"
)

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// RegisterRoutes nests reviews under /titles/:title_id.
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reviews := rg.Group("/:title_id/reviews")
	{
		reviews.GET("", h.List)
		reviews.POST("", h.Create)
		reviews.GET("/:review_id", h.Get)
		reviews.PATCH("/:review_id", h.Update)
		reviews.DELETE("/:review_id", h.Delete)
	}
}

func (h *ReviewHandler) List(c *gin.Context) {
	titleID, ok := int64Param(c, "title_id")
	if !ok {
		return
	}
	page, pageSize := pageParams(c)

	reviews, total, err := h.svc.List(c.Request.Context(), titleID, page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		resp = append(resp, dto.ReviewFromModel(&reviews[i]))
	}
	c.JSON(http.StatusOK, dto.NewPaginated(resp, int(total), page, pageSize))
}

func (h *ReviewHandler) Get(c *gin.Context) {
	titleID, ok := int64Param(c, "title_id")
	if !ok {
		return
	}
	id, ok := int64Param(c, "review_id")
	if !ok {
		return
	}

	review, err := h.svc.Get(c.Request.Context(), titleID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReviewFromModel(review))
}

func (h *ReviewHandler) Create(c *gin.Context) {
	titleID, ok := int64Param(c, "title_id")
	if !ok {
		return
	}
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.svc.Create(c.Request.Context(), middleware.ActorFromContext(c), titleID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ReviewFromModel(review))
}

func (h *ReviewHandler) Update(c *gin.Context) {
	titleID, ok := int64Param(c, "title_id")
	if !ok {
		return
	}
	id, ok := int64Param(c, "review_id")
	if !ok {
		return
	}
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.svc.Update(c.Request.Context(), middleware.ActorFromContext(c), titleID, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReviewFromModel(review))
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	titleID, ok := int64Param(c, "title_id")
	if !ok {
		return
	}
	id, ok := int64Param(c, "review_id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), middleware.ActorFromContext(c), titleID, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
