package content

import (
	"github.com/gin-gonic/gin"

	"github.com/trendscope/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/content")

	g.GET("", h.all)
	g.GET("/articles", h.articles)
	g.GET("/repos", h.repos)
	g.GET("/papers", h.papers)
	g.GET("/videos", h.videos)
	g.GET("/tools", h.tools)

	a := g.Group("", authMW)
	a.POST("/refresh", h.refresh)
}

// GET /content
func (h *Handler) all(c *gin.Context) {
	items, err := h.svc.All(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

// GET /content/articles
func (h *Handler) articles(c *gin.Context) {
	items, err := h.svc.Articles(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

// GET /content/repos?query=...
func (h *Handler) repos(c *gin.Context) {
	items, err := h.svc.Repos(c.Request.Context(), c.Query("query"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

// GET /content/papers?category=cs.AI
func (h *Handler) papers(c *gin.Context) {
	items, err := h.svc.Papers(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

// GET /content/videos?query=...
func (h *Handler) videos(c *gin.Context) {
	items, err := h.svc.Videos(c.Request.Context(), c.Query("query"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

// GET /content/tools
func (h *Handler) tools(c *gin.Context) {
	items, err := h.svc.Tools(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

// POST /content/refresh
func (h *Handler) refresh(c *gin.Context) {
	if err := h.svc.Refresh(c.Request.Context()); err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "content cache refreshed"})
}
