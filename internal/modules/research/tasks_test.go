package research

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendscope/core/internal/pkg/taskqueue"
)

func TestResultOfDecodesCompletedTask(t *testing.T) {
	stored, err := json.Marshal(AnalysisResult{ConfidenceScore: 81, ReasoningSummary: "solid"})
	require.NoError(t, err)

	task := &taskqueue.Task{
		ID:     "t1",
		Type:   TaskTypeAnalysis,
		Status: taskqueue.TaskCompleted,
		Result: stored,
	}

	result, err := ResultOf(task)
	require.NoError(t, err)
	assert.Equal(t, 81.0, result.ConfidenceScore)
	assert.Equal(t, "solid", result.ReasoningSummary)
}

func TestResultOfRejectsUnfinishedTask(t *testing.T) {
	_, err := ResultOf(&taskqueue.Task{ID: "t2", Status: taskqueue.TaskRunning})
	assert.Error(t, err)

	_, err = ResultOf(&taskqueue.Task{ID: "t3", Status: taskqueue.TaskCompleted})
	assert.Error(t, err)

	_, err = ResultOf(nil)
	assert.Error(t, err)
}
