package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/middleware"
	"reviewhub/internal/httpapi/service"
)

type CommentHandler struct {
	svc service.CommentService
}

func NewCommentHandler(svc service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// RegisterRoutes nests comments under /titles/:title_id/reviews/:review_id.
func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	comments := rg.Group("/:title_id/reviews/:review_id/comments")
	{
		comments.GET("", h.List)
		comments.POST("", h.Create)
		comments.GET("/:comment_id", h.Get)
		comments.PATCH("/:comment_id", h.Update)
		comments.DELETE("/:comment_id", h.Delete)
	}
}

func (h *CommentHandler) parseIDs(c *gin.Context) (titleID, reviewID int64, ok bool) {
	titleID, ok = int64Param(c, "title_id")
	if !ok {
		return 0, 0, false
	}
	reviewID, ok = int64Param(c, "review_id")
	if !ok {
		return 0, 0, false
	}
	return titleID, reviewID, true
}

func (h *CommentHandler) List(c *gin.Context) {
	titleID, reviewID, ok := h.parseIDs(c)
	if !ok {
		return
	}
	page, pageSize := pageParams(c)

	comments, total, err := h.svc.List(c.Request.Context(), titleID, reviewID, page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		resp = append(resp, dto.CommentFromModel(&comments[i]))
	}
	c.JSON(http.StatusOK, dto.NewPaginated(resp, int(total), page, pageSize))
}

func (h *CommentHandler) Get(c *gin.Context) {
	titleID, reviewID, ok := h.parseIDs(c)
	if !ok {
		return
	}
	id, ok := int64Param(c, "comment_id")
	if !ok {
		return
	}

	comment, err := h.svc.Get(c.Request.Context(), titleID, reviewID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CommentFromModel(comment))
}

func (h *CommentHandler) Create(c *gin.Context) {
	titleID, reviewID, ok := h.parseIDs(c)
	if !ok {
		return
	}
	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.svc.Create(c.Request.Context(), middleware.ActorFromContext(c), titleID, reviewID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CommentFromModel(comment))
}

func (h *CommentHandler) Update(c *gin.Context) {
	titleID, reviewID, ok := h.parseIDs(c)
	if !ok {
		return
	}
	id, ok := int64Param(c, "comment_id")
	if !ok {
		return
	}
	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.svc.Update(c.Request.Context(), middleware.ActorFromContext(c), titleID, reviewID, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CommentFromModel(comment))
}

func (h *CommentHandler) Delete(c *gin.Context) {
	titleID, reviewID, ok := h.parseIDs(c)
	if !ok {
		return
	}
	id, ok := int64Param(c, "comment_id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), middleware.ActorFromContext(c), titleID, reviewID, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
