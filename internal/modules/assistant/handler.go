package assistant

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/trendscope/core/internal/pkg/llm"
	"github.com/trendscope/core/internal/pkg/response"
	"github.com/trendscope/core/internal/pkg/sse"
)

type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log.Named("assistant")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, _ gin.HandlerFunc) {
	g := rg.Group("/ai")
	g.POST("/chat", h.chat)
}

type chatRequest struct {
	Messages        []llm.Message    `json:"messages"`
	PlatformContext *PlatformContext `json:"platformContext"`
}

// POST /ai/chat
//
// Relays the provider stream as SSE: one `data: {...}` line per frame and
// a final `data: [DONE]`.
func (h *Handler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Messages) == 0 {
		response.BadRequest(c, "messages array required")
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		response.InternalErrorMsg(c, "streaming unsupported")
		return
	}

	headerWritten := false
	writeHeader := func() {
		if headerWritten {
			return
		}
		headerWritten = true
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Writer.WriteHeader(http.StatusOK)
	}

	_, err := h.svc.StreamChat(c.Request.Context(), req.Messages, req.PlatformContext, func(frame sse.Frame) {
		writeHeader()
		if frame.Done {
			c.Writer.WriteString("data: [DONE]\n\n")
		} else {
			c.Writer.WriteString("data: " + frame.Raw + "\n\n")
		}
		flusher.Flush()
	})
	if err != nil {
		if headerWritten {
			// Mid-stream failure: the status line is gone, best we can do
			// is terminate the stream.
			h.log.Warn("chat stream aborted", zap.Error(err))
			return
		}
		h.writeError(c, err)
		return
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	if errors.Is(err, ErrDisabled) {
		response.BadRequest(c, "AI assistant is not enabled")
		return
	}
	var transport *llm.TransportError
	if errors.As(err, &transport) {
		switch transport.Status {
		case http.StatusTooManyRequests:
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"ok": 0, "code": http.StatusTooManyRequests,
				"message": "Rate limit exceeded. Please wait a moment and try again.",
			})
			return
		case http.StatusPaymentRequired:
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
				"ok": 0, "code": http.StatusPaymentRequired,
				"message": "AI credits exhausted. Please add credits to continue.",
			})
			return
		}
		h.log.Error("ai gateway error", zap.Int("status", transport.Status), zap.String("detail", transport.Message))
		response.InternalErrorMsg(c, "AI service temporarily unavailable")
		return
	}
	response.InternalError(c, err)
}
