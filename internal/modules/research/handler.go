package research

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/trendscope/core/internal/pkg/llm"
	"github.com/trendscope/core/internal/pkg/response"
	"github.com/trendscope/core/internal/pkg/taskqueue"
)

type Handler struct {
	svc      *Service
	sessions *Manager
	videos   *VideoLookup
	reports  *ReportRenderer
	tasks    *TaskRunner
}

func NewHandler(svc *Service, sessions *Manager, videos *VideoLookup, reports *ReportRenderer, tasks *TaskRunner) *Handler {
	return &Handler{svc: svc, sessions: sessions, videos: videos, reports: reports, tasks: tasks}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/research")

	g.POST("/analyze", h.analyze)
	g.POST("/videos", h.videoLookup)

	g.POST("/sessions", h.startSession)
	g.GET("/sessions/:id", h.sessionStatus)
	g.DELETE("/sessions/:id", h.closeSession)
	g.GET("/sessions/:id/report", h.sessionReport)

	a := g.Group("", authMW)
	a.POST("/tasks", h.enqueueTask)
	a.GET("/tasks", h.listTasks)
	a.GET("/tasks/:id", h.getTask)
	a.POST("/tasks/:id/cancel", h.cancelTask)
}

type analyzeRequest struct {
	Paper         PaperInput   `json:"paper"`
	RelatedPapers []PaperInput `json:"relatedPapers"`
	SessionID     string       `json:"session_id"`
}

// POST /research/analyze
//
// Synchronous analysis with the original wire shape:
// {success: true, data: AnalysisResult}.
func (h *Handler) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Paper.Title == "" {
		response.BadRequest(c, "Paper data is required")
		return
	}

	result, err := h.svc.Analyze(c.Request.Context(), req.Paper, req.RelatedPapers)
	if err != nil {
		h.writeAnalysisError(c, err)
		return
	}
	response.OK(c, gin.H{"success": true, "data": result})
}

type videoRequest struct {
	Query string `json:"query"`
}

// POST /research/videos
//
// Auxiliary lookup; failures degrade to {success:true, data:null}.
func (h *Handler) videoLookup(c *gin.Context) {
	var req videoRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		response.BadRequest(c, "Query is required")
		return
	}
	video := h.videos.Search(c.Request.Context(), req.Query)
	response.OK(c, gin.H{"success": true, "data": video})
}

// POST /research/sessions
//
// Opens (or restarts) a pipeline session and returns its id immediately;
// progress is observed via GET or the realtime gateway.
func (h *Handler) startSession(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Paper.Title == "" {
		response.BadRequest(c, "Paper data is required")
		return
	}
	if !h.svc.Enabled() {
		response.BadRequest(c, "research is not enabled")
		return
	}

	session := h.sessions.Open(req.SessionID)
	session.Start(req.Paper, req.RelatedPapers)
	response.OK(c, session.Snapshot())
}

// GET /research/sessions/:id
func (h *Handler) sessionStatus(c *gin.Context) {
	session := h.sessions.Get(c.Param("id"))
	if session == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, session.Snapshot())
}

// DELETE /research/sessions/:id
func (h *Handler) closeSession(c *gin.Context) {
	session := h.sessions.Get(c.Param("id"))
	if session == nil {
		response.NotFound(c)
		return
	}
	session.Close()
	response.NoContent(c)
}

// GET /research/sessions/:id/report?format=md|html&archive=1
func (h *Handler) sessionReport(c *gin.Context) {
	session := h.sessions.Get(c.Param("id"))
	if session == nil {
		response.NotFound(c)
		return
	}
	snap := session.Snapshot()
	if snap.Stage != StageDone || snap.Result == nil {
		response.Conflict(c, "analysis is not complete")
		return
	}

	if c.Query("archive") == "1" {
		if url := h.reports.Archive(c.Request.Context(), snap.ID, snap.Subject, snap.Result); url != "" {
			c.Header("X-Report-Archive", url)
		}
	}

	switch c.DefaultQuery("format", "md") {
	case "html":
		html, err := h.reports.HTML(snap.Subject, snap.Result)
		if err != nil {
			response.InternalError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
	default:
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(h.reports.Markdown(snap.Subject, snap.Result)))
	}
}

// POST /research/tasks
func (h *Handler) enqueueTask(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Paper.Title == "" {
		response.BadRequest(c, "Paper data is required")
		return
	}
	task, err := h.tasks.EnqueueAnalysis(c.Request.Context(), AnalysisPayload{
		Paper:         req.Paper,
		RelatedPapers: req.RelatedPapers,
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, task)
}

// GET /research/tasks?page=1&size=20&status=pending
func (h *Handler) listTasks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	var statusPtr *taskqueue.TaskStatus
	if statusStr := c.Query("status"); statusStr != "" {
		s := taskqueue.TaskStatus(statusStr)
		statusPtr = &s
	}

	tasks, total, err := h.tasks.Tasks(c.Request.Context(), page, size, statusPtr)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, tasks, response.Pagination{
		Total:       total,
		CurrentPage: page,
		TotalPage:   int((total + int64(size) - 1) / int64(size)),
		Size:        size,
		HasNextPage: int64(page*size) < total,
	})
}

// GET /research/tasks/:id
func (h *Handler) getTask(c *gin.Context) {
	task, err := h.tasks.Task(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if task == nil {
		response.NotFound(c)
		return
	}
	result, _ := ResultOf(task)
	response.OK(c, gin.H{"task": task, "result": result})
}

// POST /research/tasks/:id/cancel
func (h *Handler) cancelTask(c *gin.Context) {
	if err := h.tasks.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.NoContent(c)
}

func (h *Handler) writeAnalysisError(c *gin.Context, err error) {
	if errors.Is(err, ErrDisabled) {
		response.BadRequest(c, "research is not enabled")
		return
	}
	var transport *llm.TransportError
	if errors.As(err, &transport) {
		switch transport.Status {
		case http.StatusTooManyRequests:
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"ok": 0, "code": http.StatusTooManyRequests,
				"message": "Rate limit exceeded. Please try again shortly.",
			})
			return
		case http.StatusPaymentRequired:
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
				"ok": 0, "code": http.StatusPaymentRequired,
				"message": "AI credits exhausted. Please add credits.",
			})
			return
		}
		response.InternalErrorMsg(c, "AI analysis failed")
		return
	}
	var parse *llm.ParseError
	if errors.As(err, &parse) {
		response.InternalErrorMsg(c, "Failed to parse analysis results")
		return
	}
	response.InternalError(c, err)
}
