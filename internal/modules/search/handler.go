package search

import (
	"github.com/gin-gonic/gin"

	"github.com/trendscope/core/internal/modules/content"
	"github.com/trendscope/core/internal/pkg/response"
)

type Handler struct {
	svc        *Service
	contentSvc *content.Service
}

func NewHandler(svc *Service, contentSvc *content.Service) *Handler {
	return &Handler{svc: svc, contentSvc: contentSvc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, _ gin.HandlerFunc) {
	g := rg.Group("/search")
	g.POST("/semantic", h.semantic)
}

type semanticRequest struct {
	Query   string         `json:"query"`
	Content []content.Item `json:"content"`
}

// POST /search/semantic
//
// The client may supply the corpus to search; otherwise the aggregated
// platform content is used.
func (h *Handler) semantic(c *gin.Context) {
	var req semanticRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		response.BadRequest(c, "Missing query or content array")
		return
	}

	items := req.Content
	if len(items) == 0 {
		all, err := h.contentSvc.All(c.Request.Context())
		if err != nil {
			response.InternalErrorMsg(c, "Search failed")
			return
		}
		items = all
	}

	result := h.svc.Search(c.Request.Context(), req.Query, items)
	response.OK(c, gin.H{"success": true, "data": result})
}
