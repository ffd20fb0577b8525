package notify

import (
	"github.com/gin-gonic/gin"

	"github.com/trendscope/core/internal/middleware"
	"github.com/trendscope/core/internal/pkg/pagination"
	"github.com/trendscope/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/notifications", authMW)

	g.GET("", h.list)
	g.GET("/unread-count", h.unreadCount)
	g.POST("/:id/read", h.markRead)
	g.POST("/read-all", h.markAllRead)
	g.DELETE("/:id", h.delete)
}

// GET /notifications?unread=1
func (h *Handler) list(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	q := pagination.FromContext(c)

	items, pag, err := h.svc.List(userID, q, c.Query("unread") == "1")
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

// GET /notifications/unread-count
func (h *Handler) unreadCount(c *gin.Context) {
	count, err := h.svc.UnreadCount(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"count": count})
}

// POST /notifications/:id/read
func (h *Handler) markRead(c *gin.Context) {
	ok, err := h.svc.MarkRead(middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !ok {
		response.NotFound(c)
		return
	}
	response.NoContent(c)
}

// POST /notifications/read-all
func (h *Handler) markAllRead(c *gin.Context) {
	count, err := h.svc.MarkAllRead(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"marked": count})
}

// DELETE /notifications/:id
func (h *Handler) delete(c *gin.Context) {
	ok, err := h.svc.Delete(middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !ok {
		response.NotFound(c)
		return
	}
	response.NoContent(c)
}
