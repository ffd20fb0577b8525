package saved

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/trendscope/core/internal/middleware"
	"github.com/trendscope/core/internal/modules/content"
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
	g := rg.Group("/saved", authMW)

	g.GET("", h.list)
	g.GET("/ids", h.ids)
	g.POST("", h.save)
	g.DELETE("/:id", h.delete)
}

// GET /saved?type=article&page=1&size=10
func (h *Handler) list(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	q := pagination.FromContext(c)

	items, pag, err := h.svc.List(userID, q, c.Query("type"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

// GET /saved/ids
func (h *Handler) ids(c *gin.Context) {
	ids, err := h.svc.SavedIDs(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	response.OK(c, gin.H{"ids": ids})
}

type saveRequest struct {
	Item content.Item `json:"item"`
}

// POST /saved
func (h *Handler) save(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Item.ID == "" || req.Item.Title == "" {
		response.BadRequest(c, "item with id and title is required")
		return
	}

	saved, err := h.svc.Save(middleware.CurrentUserID(c), req.Item)
	if err != nil {
		if errors.Is(err, ErrAlreadySaved) {
			response.Conflict(c, "item already saved")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, saved)
}

// DELETE /saved/:id
func (h *Handler) delete(c *gin.Context) {
	deleted, err := h.svc.Delete(middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !deleted {
		response.NotFound(c)
		return
	}
	response.NoContent(c)
}
