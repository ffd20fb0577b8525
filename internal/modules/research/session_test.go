package research

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubAnalyzer blocks until released, then returns the configured result.
type stubAnalyzer struct {
	release chan struct{}
	result  *AnalysisResult
	err     error
}

func newStubAnalyzer() *stubAnalyzer {
	return &stubAnalyzer{release: make(chan struct{})}
}

func (a *stubAnalyzer) Analyze(ctx context.Context, paper PaperInput, related []PaperInput) (*AnalysisResult, error) {
	select {
	case <-a.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return a.result, a.err
}

type recordingHub struct {
	mu     sync.Mutex
	events []string
}

func (h *recordingHub) Broadcast(event string, payload interface{}) {
	h.mu.Lock()
	h.events = append(h.events, event)
	h.mu.Unlock()
}

func newTestSession(t *testing.T, analyzer Analyzer, interval, grace time.Duration) *Session {
	t.Helper()
	return &Session{
		ID:       "test-session",
		stage:    StageIdle,
		interval: interval,
		grace:    grace,
		analyzer: analyzer,
		hub:      &recordingHub{},
		log:      zap.NewNop(),
	}
}

func waitForStage(t *testing.T, s *Session, want Stage) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Snapshot().Stage == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("stage never reached %q, got %q", want, s.Snapshot().Stage)
}

func TestSessionTimerAdvancesThroughStages(t *testing.T) {
	analyzer := newStubAnalyzer()
	s := newTestSession(t, analyzer, 10*time.Millisecond, 50*time.Millisecond)

	s.Start(PaperInput{ID: "p1", Title: "Attention Is All You Need"}, nil)
	assert.Equal(t, StageSearching, s.Snapshot().Stage)

	waitForStage(t, s, StageRanking)
	waitForStage(t, s, StageReport)

	// the timer holds at the last simulated stage; it never reaches done
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, StageReport, s.Snapshot().Stage)

	close(analyzer.release)
}

func TestSessionResolutionSnapsToDone(t *testing.T) {
	analyzer := newStubAnalyzer()
	analyzer.result = &AnalysisResult{ConfidenceScore: 80}
	s := newTestSession(t, analyzer, 10*time.Millisecond, 50*time.Millisecond)

	s.Start(PaperInput{ID: "p1", Title: "Paper"}, nil)
	close(analyzer.release)

	waitForStage(t, s, StageDone)
	snap := s.Snapshot()
	require.NotNil(t, snap.Result)
	assert.Equal(t, 80.0, snap.Result.ConfidenceScore)

	// resolution cancelled the timer: the stage stays put
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, StageDone, s.Snapshot().Stage)
}

func TestSessionResolutionWithErrorSnapsToError(t *testing.T) {
	analyzer := newStubAnalyzer()
	analyzer.err = errors.New("upstream exploded")
	s := newTestSession(t, analyzer, 10*time.Millisecond, 50*time.Millisecond)

	s.Start(PaperInput{ID: "p1", Title: "Paper"}, nil)
	close(analyzer.release)

	waitForStage(t, s, StageError)
	assert.NotEmpty(t, s.Snapshot().Error)
}

func TestSessionResolveIsIdempotent(t *testing.T) {
	analyzer := newStubAnalyzer()
	s := newTestSession(t, analyzer, time.Hour, 50*time.Millisecond)

	s.Start(PaperInput{ID: "p1", Title: "Paper"}, nil)
	token := s.token

	s.resolve(token, &AnalysisResult{ConfidenceScore: 60}, nil)
	s.resolve(token, nil, errors.New("late failure"))

	snap := s.Snapshot()
	assert.Equal(t, StageDone, snap.Stage)
	require.NotNil(t, snap.Result)
	assert.Equal(t, 60.0, snap.Result.ConfidenceScore)
	assert.Empty(t, snap.Error)

	close(analyzer.release)
}

func TestSessionStaleResolveIgnored(t *testing.T) {
	analyzer := newStubAnalyzer()
	s := newTestSession(t, analyzer, time.Hour, 50*time.Millisecond)

	s.Start(PaperInput{ID: "p1", Title: "First"}, nil)
	stale := s.token
	s.Start(PaperInput{ID: "p2", Title: "Second"}, nil)

	s.resolve(stale, &AnalysisResult{ConfidenceScore: 10}, nil)

	snap := s.Snapshot()
	assert.Equal(t, StageSearching, snap.Stage)
	assert.Nil(t, snap.Result)

	close(analyzer.release)
}

func TestSessionCloseClearsAfterGrace(t *testing.T) {
	analyzer := newStubAnalyzer()
	cleared := make(chan string, 1)
	s := newTestSession(t, analyzer, time.Hour, 20*time.Millisecond)
	s.onClear = func(id string) { cleared <- id }

	s.Start(PaperInput{ID: "p1", Title: "Paper"}, nil)
	s.Close()

	snap := s.Snapshot()
	assert.False(t, snap.Open)
	assert.NotNil(t, snap.Subject) // not cleared yet during the grace window

	select {
	case id := <-cleared:
		assert.Equal(t, "test-session", id)
	case <-time.After(time.Second):
		t.Fatal("grace clear never fired")
	}

	snap = s.Snapshot()
	assert.Equal(t, StageIdle, snap.Stage)
	assert.Nil(t, snap.Subject)

	close(analyzer.release)
}

func TestSessionResolveAfterGraceClearIgnored(t *testing.T) {
	analyzer := newStubAnalyzer()
	cleared := make(chan string, 1)
	s := newTestSession(t, analyzer, time.Hour, 20*time.Millisecond)
	s.onClear = func(id string) { cleared <- id }

	s.Start(PaperInput{ID: "p1", Title: "Paper"}, nil)
	token := s.token
	s.Close()

	select {
	case <-cleared:
	case <-time.After(time.Second):
		t.Fatal("grace clear never fired")
	}

	// the clear invalidated the token, so a late resolve must not
	// repopulate the session
	s.resolve(token, &AnalysisResult{ConfidenceScore: 99}, nil)

	snap := s.Snapshot()
	assert.Equal(t, StageIdle, snap.Stage)
	assert.Nil(t, snap.Result)
	assert.Nil(t, snap.Subject)

	close(analyzer.release)
}

func TestSessionRestartDuringGraceSupersedesClear(t *testing.T) {
	analyzer := newStubAnalyzer()
	cleared := make(chan string, 1)
	s := newTestSession(t, analyzer, time.Hour, 30*time.Millisecond)
	s.onClear = func(id string) { cleared <- id }

	s.Start(PaperInput{ID: "p1", Title: "First"}, nil)
	s.Close()
	s.Start(PaperInput{ID: "p2", Title: "Second"}, nil)

	select {
	case <-cleared:
		t.Fatal("clear fired despite a newer start")
	case <-time.After(100 * time.Millisecond):
	}

	snap := s.Snapshot()
	assert.True(t, snap.Open)
	assert.Equal(t, StageSearching, snap.Stage)
	require.NotNil(t, snap.Subject)
	assert.Equal(t, "p2", snap.Subject.ID)

	close(analyzer.release)
}

func TestSessionCandidateCap(t *testing.T) {
	got := make(chan int, 1)
	analyzer := &capturingAnalyzer{got: got}
	s := newTestSession(t, analyzer, time.Hour, 50*time.Millisecond)

	candidates := make([]PaperInput, 12)
	for i := range candidates {
		candidates[i] = PaperInput{ID: "c", Title: "candidate"}
	}
	s.Start(PaperInput{ID: "p1", Title: "Paper"}, candidates)

	select {
	case n := <-got:
		assert.Equal(t, 8, n)
	case <-time.After(time.Second):
		t.Fatal("analyzer never invoked")
	}
}

type capturingAnalyzer struct {
	got chan int
}

func (a *capturingAnalyzer) Analyze(ctx context.Context, paper PaperInput, related []PaperInput) (*AnalysisResult, error) {
	a.got <- len(related)
	return &AnalysisResult{}, nil
}

func TestManagerOpenReusesLiveSession(t *testing.T) {
	m := NewManager(time.Hour, newStubAnalyzer(), nil, nil, zap.NewNop())

	s1 := m.Open("")
	require.NotEmpty(t, s1.ID)
	s2 := m.Open(s1.ID)
	assert.Same(t, s1, s2)

	s3 := m.Open("")
	assert.NotEqual(t, s1.ID, s3.ID)
	assert.Same(t, s3, m.Get(s3.ID))
	assert.Nil(t, m.Get("missing"))
}
