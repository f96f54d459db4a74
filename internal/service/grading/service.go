package grading

import (
	"context"
	"mime/multipart"

	"github.com/feichai0017/pbit-mentor/internal/assignment"
	"github.com/feichai0017/pbit-mentor/internal/models"
	"github.com/feichai0017/pbit-mentor/pkg/queue"
)

// Service grades submissions, either synchronously or through the
// queue: upload goes to object storage, a task to the queue, and the
// worker calls HandleGradingTask.
type Service interface {
	GradeSubmission(ctx context.Context, path string, spec *assignment.Spec) (*models.SubmissionResult, error)
	SubmitSubmission(ctx context.Context, file multipart.File, header *multipart.FileHeader, assignmentID string) (*models.GradingTask, error)
	GetStatus(ctx context.Context, taskID string) (*models.GradingTask, error)
	HandleGradingTask(ctx context.Context, task *queue.Task) error
	CancelTask(ctx context.Context, taskID string) error
}
