package research

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/trendscope/core/internal/pkg/taskqueue"
)

const TaskTypeAnalysis = "research_analysis"

// AnalysisPayload is the task body for background analysis runs.
type AnalysisPayload struct {
	Paper         PaperInput   `json:"paper"`
	RelatedPapers []PaperInput `json:"related_papers"`
}

// TaskRunner executes analysis tasks enqueued on the shared queue.
type TaskRunner struct {
	svc     *Service
	taskSvc *taskqueue.Service
}

func NewTaskRunner(svc *Service, taskSvc *taskqueue.Service) *TaskRunner {
	return &TaskRunner{svc: svc, taskSvc: taskSvc}
}

// EnqueueAnalysis creates a deduplicated analysis task (or returns the
// already-pending one) and kicks off execution.
func (r *TaskRunner) EnqueueAnalysis(ctx context.Context, payload AnalysisPayload) (*taskqueue.Task, error) {
	if strings.TrimSpace(payload.Paper.Title) == "" {
		return nil, errors.New("paper data is required")
	}

	dedup := analysisHash(payload.Paper, payload.RelatedPapers)
	task, err := r.taskSvc.Enqueue(ctx, TaskTypeAnalysis, payload, dedup, payload.Paper.ID)
	if err != nil {
		return nil, err
	}

	// Execute immediately in a goroutine (in production use a worker pool)
	if task.Status == taskqueue.TaskPending {
		go r.execute(context.Background(), task.ID, payload)
	}
	return task, nil
}

func (r *TaskRunner) execute(ctx context.Context, taskID string, payload AnalysisPayload) {
	r.taskSvc.UpdateStatus(ctx, taskID, taskqueue.TaskRunning, nil, "")

	result, err := r.svc.Analyze(ctx, payload.Paper, payload.RelatedPapers)
	if err != nil {
		r.taskSvc.UpdateStatus(ctx, taskID, taskqueue.TaskFailed, nil, errorMessage(err))
		return
	}
	r.taskSvc.UpdateStatus(ctx, taskID, taskqueue.TaskCompleted, result, "")
}

// Tasks lists analysis tasks, newest first.
func (r *TaskRunner) Tasks(ctx context.Context, page, size int, status *taskqueue.TaskStatus) ([]*taskqueue.Task, int64, error) {
	taskType := TaskTypeAnalysis
	return r.taskSvc.List(ctx, page, size, &taskType, status)
}

// Task fetches a single task by ID.
func (r *TaskRunner) Task(ctx context.Context, id string) (*taskqueue.Task, error) {
	return r.taskSvc.GetByID(ctx, id)
}

// Cancel cancels a pending task.
func (r *TaskRunner) Cancel(ctx context.Context, id string) error {
	return r.taskSvc.Cancel(ctx, id)
}

// ResultOf decodes a completed task's stored result.
func ResultOf(task *taskqueue.Task) (*AnalysisResult, error) {
	if task == nil || task.Status != taskqueue.TaskCompleted || len(task.Result) == 0 {
		return nil, errors.New("task has no result")
	}
	var result AnalysisResult
	if err := json.Unmarshal(task.Result, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
