package research

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stage is one step of the analysis pipeline presentation.
type Stage string

const (
	StageIdle           Stage = "idle"
	StageSearching      Stage = "searching"
	StageRanking        Stage = "ranking"
	StageExtracting     Stage = "extracting"
	StageContradictions Stage = "contradictions"
	StageDevilsAdvocate Stage = "devils_advocate"
	StageConfidence     Stage = "confidence"
	StageReport         Stage = "report"
	StageDone           Stage = "done"
	StageError          Stage = "error"
)

// progressStages is the simulated advancement order. The timer walks this
// list; it never reaches done on its own.
var progressStages = []Stage{
	StageSearching,
	StageRanking,
	StageExtracting,
	StageContradictions,
	StageDevilsAdvocate,
	StageConfidence,
	StageReport,
}

// closeGraceDelay defers the post-close clear long enough for a client
// exit transition.
const closeGraceDelay = 300 * time.Millisecond

// Broadcaster fans session events out to realtime subscribers.
type Broadcaster interface {
	Broadcast(event string, payload interface{})
}

// Analyzer runs the primary analysis call.
type Analyzer interface {
	Analyze(ctx context.Context, paper PaperInput, related []PaperInput) (*AnalysisResult, error)
}

// Session is one pipeline run. The stage timer simulates progress while
// the real analysis request is in flight; resolution cancels the timer
// and snaps the stage.
type Session struct {
	ID string

	mu           sync.Mutex
	token        uint64 // bumped by Start; guards stale timers and deferred clears
	open         bool
	stage        Stage
	stageIndex   int
	subject      *PaperInput
	result       *AnalysisResult
	errMsg       string
	video        *Video
	videoLoading bool
	resolved     bool
	cancelTimer  context.CancelFunc

	interval time.Duration
	grace    time.Duration
	analyzer Analyzer
	videos   *VideoLookup
	hub      Broadcaster
	log      *zap.Logger
	onClear  func(id string)
}

// Snapshot is the externally observable session state.
type Snapshot struct {
	ID           string          `json:"id"`
	Open         bool            `json:"open"`
	Stage        Stage           `json:"stage"`
	Subject      *PaperInput     `json:"subject,omitempty"`
	Result       *AnalysisResult `json:"result,omitempty"`
	Error        string          `json:"error,omitempty"`
	Video        *Video          `json:"video,omitempty"`
	VideoLoading bool            `json:"video_loading"`
}

// Start resets the session and launches the stage timer, the primary
// analysis call, and the auxiliary video lookup. A Start during a pending
// close supersedes the deferred clear.
func (s *Session) Start(subject PaperInput, candidates []PaperInput) {
	if len(candidates) > 8 {
		candidates = candidates[:8]
	}

	s.mu.Lock()
	s.token++
	token := s.token
	if s.cancelTimer != nil {
		s.cancelTimer()
	}
	timerCtx, cancel := context.WithCancel(context.Background())
	s.cancelTimer = cancel

	s.open = true
	s.resolved = false
	s.stage = progressStages[0]
	s.stageIndex = 0
	subj := subject
	s.subject = &subj
	s.result = nil
	s.errMsg = ""
	s.video = nil
	s.videoLoading = true
	s.mu.Unlock()

	s.broadcast("research:stage", map[string]interface{}{"session_id": s.ID, "stage": progressStages[0]})

	go s.runTimer(timerCtx, token)
	go s.runAnalysis(token, subject, candidates)
	go s.runVideoLookup(token, subject.Title)
}

func (s *Session) runTimer(ctx context.Context, token uint64) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.advance(token) {
				return
			}
		}
	}
}

// advance moves to the next simulated stage. Returns false once the
// session resolved or was superseded.
func (s *Session) advance(token uint64) bool {
	s.mu.Lock()
	if s.token != token || s.resolved {
		s.mu.Unlock()
		return false
	}
	if s.stageIndex+1 >= len(progressStages) {
		s.mu.Unlock()
		return true // hold at the last simulated stage until resolution
	}
	s.stageIndex++
	s.stage = progressStages[s.stageIndex]
	stage := s.stage
	s.mu.Unlock()

	s.broadcast("research:stage", map[string]interface{}{"session_id": s.ID, "stage": stage})
	return true
}

func (s *Session) runAnalysis(token uint64, subject PaperInput, candidates []PaperInput) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	result, err := s.analyzer.Analyze(ctx, subject, candidates)
	s.resolve(token, result, err)
}

// resolve cancels the stage timer and snaps the state to done or error.
// Safe to call more than once; only the first call for a live token wins.
func (s *Session) resolve(token uint64, result *AnalysisResult, err error) {
	s.mu.Lock()
	if s.token != token || s.resolved {
		s.mu.Unlock()
		return
	}
	s.resolved = true
	if s.cancelTimer != nil {
		s.cancelTimer()
		s.cancelTimer = nil
	}
	if err != nil {
		s.stage = StageError
		s.errMsg = errorMessage(err)
	} else {
		s.stage = StageDone
		s.result = result
	}
	stage := s.stage
	s.mu.Unlock()

	s.broadcast("research:stage", map[string]interface{}{"session_id": s.ID, "stage": stage})
	if err != nil {
		s.log.Warn("analysis failed", zap.String("session", s.ID), zap.Error(err))
	}
}

func (s *Session) runVideoLookup(token uint64, query string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var video *Video
	if s.videos != nil {
		video = s.videos.Search(ctx, query)
	}

	s.mu.Lock()
	if s.token == token {
		s.video = video
		s.videoLoading = false
	}
	s.mu.Unlock()
}

// Close hides the session immediately and clears it after a grace delay.
// The clear only applies if no new Start claimed the session meanwhile.
func (s *Session) Close() {
	s.mu.Lock()
	s.open = false
	if s.cancelTimer != nil {
		s.cancelTimer()
		s.cancelTimer = nil
	}
	token := s.token
	grace := s.grace
	s.mu.Unlock()

	time.AfterFunc(grace, func() {
		s.mu.Lock()
		if s.token != token {
			// superseded by a newer Start during the grace window
			s.mu.Unlock()
			return
		}
		s.token++ // invalidate any resolve still in flight
		s.stage = StageIdle
		s.stageIndex = 0
		s.subject = nil
		s.result = nil
		s.errMsg = ""
		s.video = nil
		s.videoLoading = false
		s.resolved = false
		onClear := s.onClear
		s.mu.Unlock()

		if onClear != nil {
			onClear(s.ID)
		}
	})
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:           s.ID,
		Open:         s.open,
		Stage:        s.stage,
		Subject:      s.subject,
		Result:       s.result,
		Error:        s.errMsg,
		Video:        s.video,
		VideoLoading: s.videoLoading,
	}
}

func (s *Session) broadcast(event string, payload interface{}) {
	if s.hub != nil {
		s.hub.Broadcast(event, payload)
	}
}

// Manager owns the live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	interval time.Duration
	grace    time.Duration
	analyzer Analyzer
	videos   *VideoLookup
	hub      Broadcaster
	log      *zap.Logger
}

func NewManager(interval time.Duration, analyzer Analyzer, videos *VideoLookup, hub Broadcaster, log *zap.Logger) *Manager {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Manager{
		sessions: make(map[string]*Session),
		interval: interval,
		grace:    closeGraceDelay,
		analyzer: analyzer,
		videos:   videos,
		hub:      hub,
		log:      log.Named("research"),
	}
}

// Open returns the session with id, creating it when id is empty or
// unknown.
func (m *Manager) Open(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id != "" {
		if s, ok := m.sessions[id]; ok {
			return s
		}
	}
	if id == "" {
		id = uuid.New().String()
	}
	s := &Session{
		ID:       id,
		stage:    StageIdle,
		interval: m.interval,
		grace:    m.grace,
		analyzer: m.analyzer,
		videos:   m.videos,
		hub:      m.hub,
		log:      m.log,
		onClear:  m.remove,
	}
	m.sessions[id] = s
	return s
}

// Get returns a live session or nil.
func (m *Manager) Get(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
