package assistant

import (
	"context"
	"errors"

	"go.uber.org/zap"

	appcfg "github.com/trendscope/core/internal/config"
	"github.com/trendscope/core/internal/pkg/llm"
	"github.com/trendscope/core/internal/pkg/sse"
)

const chatMaxTokens = 2048

var ErrDisabled = errors.New("assistant is disabled")

type Service struct {
	cfg appcfg.AIConfig
	log *zap.Logger
}

func NewService(cfg *appcfg.AppConfig, log *zap.Logger) *Service {
	return &Service{cfg: cfg.AI, log: log.Named("assistant")}
}

func (s *Service) Enabled() bool { return s.cfg.EnableAssistant }

// StreamChat prepends the platform-aware system prompt to the conversation
// and relays the provider's stream frame by frame through onFrame. The
// folded assistant reply is returned once the stream terminates.
func (s *Service) StreamChat(ctx context.Context, messages []llm.Message, pc *PlatformContext, onFrame func(sse.Frame)) (string, error) {
	if !s.cfg.EnableAssistant {
		return "", ErrDisabled
	}
	provider := llm.SelectProvider(s.cfg, s.cfg.ChatModel)
	if provider == nil {
		return "", errors.New("no AI provider configured")
	}

	conversation := make([]llm.Message, 0, len(messages)+1)
	conversation = append(conversation, llm.Message{Role: "system", Content: buildSystemPrompt(pc)})
	conversation = append(conversation, messages...)

	acc := NewAccumulator()
	reply, err := llm.StreamChat(ctx, provider, conversation, chatMaxTokens, func(frame sse.Frame) {
		if frame.Done {
			acc.Seal()
		} else if token := llm.DeltaContent(frame); token != "" {
			acc.ApplyDelta(token)
		}
		if onFrame != nil {
			onFrame(frame)
		}
	})
	if err != nil {
		return "", err
	}

	// The accumulator view and the streamed total must agree; prefer the
	// accumulator since it is what downstream consumers observed.
	if snapshot := acc.Snapshot(); len(snapshot) > 0 {
		return snapshot[len(snapshot)-1].Content, nil
	}
	return reply, nil
}
