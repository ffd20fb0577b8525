package research

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	appcfg "github.com/trendscope/core/internal/config"
	"github.com/trendscope/core/internal/models"
	"github.com/trendscope/core/internal/pkg/llm"
)

const analysisMaxTokens = 4096

var ErrDisabled = errors.New("research is disabled")

// Service runs the primary analysis call and caches normalized results.
type Service struct {
	ai  appcfg.AIConfig
	cfg appcfg.ResearchConfig
	db  *gorm.DB
	log *zap.Logger
}

func NewService(cfg *appcfg.AppConfig, db *gorm.DB, log *zap.Logger) *Service {
	return &Service{
		ai:  cfg.AI,
		cfg: cfg.Research,
		db:  db,
		log: log.Named("research"),
	}
}

func (s *Service) Enabled() bool { return s.ai.EnableResearch }

// Analyze produces a normalized AnalysisResult for paper, cross-referenced
// against up to MaxCandidates related papers. Results are cached by a hash
// of the subject and candidate set.
func (s *Service) Analyze(ctx context.Context, paper PaperInput, related []PaperInput) (*AnalysisResult, error) {
	if !s.ai.EnableResearch {
		return nil, ErrDisabled
	}
	if strings.TrimSpace(paper.Title) == "" {
		return nil, errors.New("paper data is required")
	}
	if len(related) > s.cfg.MaxCandidates {
		related = related[:s.cfg.MaxCandidates]
	}

	hash := analysisHash(paper, related)
	if cached := s.lookupCached(hash); cached != nil {
		return cached, nil
	}

	provider := llm.SelectProvider(s.ai, s.ai.ResearchModel)
	if provider == nil {
		return nil, errors.New("no AI provider configured")
	}

	raw, err := llm.Generate(ctx, provider, analysisSystemPrompt, buildAnalysisPrompt(paper, related), analysisMaxTokens)
	if err != nil {
		return nil, err
	}

	result, err := Normalize(raw)
	if err != nil {
		s.log.Error("analysis parse failed", zap.String("raw", truncateForLog(raw)), zap.Error(err))
		return nil, err
	}

	s.storeCached(hash, paper, result)
	return result, nil
}

func (s *Service) lookupCached(hash string) *AnalysisResult {
	if s.db == nil {
		return nil
	}
	var row models.AnalysisModel
	if err := s.db.First(&row, "hash = ?", hash).Error; err != nil {
		return nil
	}
	var result AnalysisResult
	if err := json.Unmarshal(row.Result, &result); err != nil {
		return nil
	}
	return &result
}

func (s *Service) storeCached(hash string, paper PaperInput, result *AnalysisResult) {
	if s.db == nil {
		return
	}
	data, err := result.Marshal()
	if err != nil {
		return
	}
	row := models.AnalysisModel{
		Hash:    hash,
		PaperID: paper.ID,
		Title:   paper.Title,
		Result:  data,
	}
	if err := s.db.Create(&row).Error; err != nil {
		s.log.Debug("analysis cache write failed", zap.Error(err))
	}
}

// analysisHash keys the cache on the subject plus the candidate set,
// order-insensitive.
func analysisHash(paper PaperInput, related []PaperInput) string {
	ids := make([]string, 0, len(related))
	for _, p := range related {
		ids = append(ids, p.ID)
	}
	sort.Strings(ids)

	h := sha256.New()
	h.Write([]byte(paper.ID))
	h.Write([]byte{0})
	h.Write([]byte(paper.Title))
	for _, id := range ids {
		h.Write([]byte{0})
		h.Write([]byte(id))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// errorMessage prefers a server-provided message over Go error text.
func errorMessage(err error) string {
	var transport *llm.TransportError
	if errors.As(err, &transport) {
		return transport.UserMessage()
	}
	var parse *llm.ParseError
	if errors.As(err, &parse) {
		return "Failed to parse analysis results"
	}
	if err != nil {
		return err.Error()
	}
	return "Analysis failed"
}

func truncateForLog(s string) string {
	if len(s) > 500 {
		return s[:500]
	}
	return s
}
