package grading

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	cfg "github.com/feichai0017/pbit-mentor/config"
	"github.com/feichai0017/pbit-mentor/internal/assignment"
	"github.com/feichai0017/pbit-mentor/internal/errs"
	"github.com/feichai0017/pbit-mentor/internal/evaluator"
	"github.com/feichai0017/pbit-mentor/internal/evaluator/gemini"
	"github.com/feichai0017/pbit-mentor/internal/evaluator/vertex"
	"github.com/feichai0017/pbit-mentor/internal/models"
	"github.com/feichai0017/pbit-mentor/internal/pbit"
	"github.com/feichai0017/pbit-mentor/internal/submission"
	"github.com/feichai0017/pbit-mentor/pkg/logger"
	"github.com/feichai0017/pbit-mentor/pkg/queue"
	"github.com/feichai0017/pbit-mentor/pkg/storage"
)

const feedbackBanner = "======================================================================"

// Canned zero-score feedback when a required artifact is missing from
// the submission. A missing file is a grading outcome, not an error.
var missingArtifactFeedback = map[models.Section]string{
	models.SectionDAX:    "Unable to evaluate submission.\n\nThe assignment includes DAX related questions, but no DAX related response (.pbit file) was found. Please ensure your submission includes all required components and resubmit.",
	models.SectionVisual: "Unable to evaluate submission.\n\nThe assignment includes visual type questions, but no visual type response (.pdf file) was found. Please ensure your submission includes all required components and resubmit.",
	models.SectionWrite:  "Unable to evaluate submission.\n\nThe assignment includes written type questions, but no written type response (.txt file) was found. Please ensure your submission includes all required components and resubmit.",
}

type GradingService struct {
	evaluator evaluator.Evaluator
	analyzer  *pbit.Analyzer
	queue     queue.Queue
	storage   storage.Storage
	logger    logger.Logger
	config    *ServiceConfig
}

type ServiceConfig struct {
	MaxFileSize    int64
	AssignmentsDir string
	QueuePriority  int
	GradeTimeout   time.Duration
}

func NewService(
	eval evaluator.Evaluator,
	q queue.Queue,
	store storage.Storage,
	log logger.Logger,
	config *ServiceConfig,
) Service {
	if config == nil {
		config = &ServiceConfig{
			MaxFileSize:    100 * 1024 * 1024, // 100MB
			AssignmentsDir: "assignments",
			GradeTimeout:   30 * time.Minute,
		}
	}

	return &GradingService{
		evaluator: eval,
		analyzer:  pbit.NewAnalyzer(log),
		queue:     q,
		storage:   store,
		logger:    log,
		config:    config,
	}
}

// GetService wires a service from environment configuration.
func GetService(log logger.Logger) (Service, error) {
	eval, err := NewEvaluator(os.Getenv("EVALUATOR_BACKEND"), log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize evaluator: %w", err)
	}

	store, err := storage.NewStorage(storage.StorageTypeMinio, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	queueCfg := cfg.GetQueueConfig()
	q, err := queue.GetQueue(queueCfg.RedisAddr, queueCfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize queue: %w", err)
	}

	return NewService(eval, q, store, log, nil), nil
}

// NewEvaluator selects an evaluator backend by name. Gemini is the
// default.
func NewEvaluator(backend string, log logger.Logger) (evaluator.Evaluator, error) {
	switch backend {
	case "", "gemini":
		return gemini.NewClient(cfg.GetGeminiConfig(), log), nil
	case "vertex":
		return vertex.NewClient(cfg.GetVertexConfig(), log), nil
	default:
		return nil, fmt.Errorf("unsupported evaluator backend: %s", backend)
	}
}

// GradeSubmission resolves the submission path and grades every section
// the assignment asks about. Sections are independent, so they run
// concurrently; the first hard failure cancels the rest.
func (s *GradingService) GradeSubmission(ctx context.Context, path string, spec *assignment.Spec) (*models.SubmissionResult, error) {
	workPath, cleanup, err := submission.Resolve(path)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	s.logger.Info("Grading submission",
		logger.String("path", path),
		logger.String("workPath", workPath),
	)

	sections := []models.Section{models.SectionDAX, models.SectionVisual, models.SectionWrite}
	results := make([]*models.Evaluation, len(sections))

	g, gctx := errgroup.WithContext(ctx)
	for i, section := range sections {
		i, section := i, section
		g.Go(func() error {
			ev, err := s.gradeSection(gctx, workPath, spec, section)
			if err != nil {
				return fmt.Errorf("grading %s section: %w", section, err)
			}
			results[i] = ev
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return combineResults(sections, results), nil
}

func (s *GradingService) gradeSection(ctx context.Context, workPath string, spec *assignment.Spec, section models.Section) (*models.Evaluation, error) {
	question := spec.Question(section)
	if question == "" {
		return nil, nil
	}
	rubric := spec.Rubric(section)

	switch section {
	case models.SectionDAX:
		return s.gradeDAX(ctx, workPath, question, rubric)
	case models.SectionVisual:
		return s.gradeVisual(ctx, workPath, question, rubric)
	case models.SectionWrite:
		return s.gradeWrite(ctx, workPath, question, rubric)
	default:
		return nil, fmt.Errorf("unknown grading section: %s", section)
	}
}

func (s *GradingService) gradeDAX(ctx context.Context, workPath, question, rubric string) (*models.Evaluation, error) {
	pbitPath := locateArtifact(workPath, ".pbit")
	if pbitPath == "" {
		return &models.Evaluation{Score: 0, Feedback: missingArtifactFeedback[models.SectionDAX]}, nil
	}

	report, err := s.analyzer.Analyze(pbitPath)
	if err != nil {
		return nil, err
	}

	return s.evaluator.Evaluate(ctx, question, report, rubric)
}

func (s *GradingService) gradeVisual(ctx context.Context, workPath, question, rubric string) (*models.Evaluation, error) {
	visual, ok := s.evaluator.(evaluator.VisualEvaluator)
	if !ok {
		return nil, fmt.Errorf("evaluator backend does not support visual grading")
	}

	pdfPath := locateArtifact(workPath, ".pdf")
	if pdfPath == "" {
		return &models.Evaluation{Score: 0, Feedback: missingArtifactFeedback[models.SectionVisual]}, nil
	}

	return visual.EvaluateVisual(ctx, question, rubric, pdfPath)
}

func (s *GradingService) gradeWrite(ctx context.Context, workPath, question, rubric string) (*models.Evaluation, error) {
	txtPath := locateArtifact(workPath, ".txt")
	if txtPath == "" {
		return &models.Evaluation{Score: 0, Feedback: missingArtifactFeedback[models.SectionWrite]}, nil
	}

	answer, err := os.ReadFile(txtPath)
	if err != nil {
		return nil, fmt.Errorf("read written answer %s: %w", txtPath, err)
	}

	return s.evaluator.Evaluate(ctx, question, string(answer), rubric)
}

// locateArtifact accepts either a directly submitted file of the wanted
// type or the first matching file inside a submission directory.
func locateArtifact(workPath, ext string) string {
	info, err := os.Stat(workPath)
	if err != nil {
		return ""
	}
	if !info.IsDir() {
		if strings.EqualFold(filepath.Ext(workPath), ext) {
			return workPath
		}
		return ""
	}
	return submission.FindByExt(workPath, ext)
}

// combineResults averages the scores of the graded sections and joins
// their feedback under per-section banners.
func combineResults(sections []models.Section, results []*models.Evaluation) *models.SubmissionResult {
	result := &models.SubmissionResult{
		Sections: make([]models.SectionResult, 0, len(sections)),
	}

	var sum float64
	var graded int
	var feedback []string

	for i, section := range sections {
		ev := results[i]
		result.Sections = append(result.Sections, models.SectionResult{
			Section:    section,
			Evaluation: ev,
		})
		if ev == nil {
			continue
		}
		sum += ev.Score
		graded++
		feedback = append(feedback, fmt.Sprintf("%s\n%s EVALUATION\n%s\nScore: %g/100\n\n%s\n",
			feedbackBanner, strings.ToUpper(string(section)), feedbackBanner, ev.Score, ev.Feedback))
	}

	if graded > 0 {
		result.Score = math.Round(sum/float64(graded)*100) / 100
		result.Feedback = strings.Join(feedback, "\n")
	} else {
		result.Feedback = "No evaluations completed."
	}

	return result
}

// SubmitSubmission stores the uploaded bundle and queues a grading
// task.
func (s *GradingService) SubmitSubmission(ctx context.Context, file multipart.File, header *multipart.FileHeader, assignmentID string) (*models.GradingTask, error) {
	if header.Size > s.config.MaxFileSize {
		return nil, fmt.Errorf("%w: %s exceeds the %d byte limit", errs.ErrInvalidFormat, header.Filename, s.config.MaxFileSize)
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".zip" && !strings.EqualFold(ext, ".pbit") {
		return nil, fmt.Errorf("%w: submission upload must be a .zip bundle or .pbit file, got %q", errs.ErrInvalidFormat, ext)
	}
	if _, err := s.loadSpec(assignmentID); err != nil {
		return nil, err
	}

	taskID := uuid.New().String()
	objectKey := taskID + ext

	if _, err := s.storage.Store(ctx, file, objectKey); err != nil {
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}

	task := &models.GradingTask{
		ID:           taskID,
		Status:       models.StatusPending,
		AssignmentID: assignmentID,
		Priority:     s.config.QueuePriority,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
		Metadata: map[string]string{
			"filename": header.Filename,
			"size":     fmt.Sprintf("%d", header.Size),
		},
	}

	queueTask := &queue.Task{
		ID:       taskID,
		Type:     queue.TaskTypeGradeSubmission,
		Priority: task.Priority,
		Payload: map[string]interface{}{
			"objectKey":    objectKey,
			"assignmentId": assignmentID,
			"filename":     header.Filename,
		},
		Metadata:  task.Metadata,
		CreatedAt: task.CreatedAt,
	}
	if err := s.queue.Enqueue(ctx, queueTask); err != nil {
		// Don't leave an orphaned object behind.
		if delErr := s.storage.Delete(ctx, objectKey); delErr != nil {
			s.logger.Warn("Failed to remove stored submission after enqueue failure",
				logger.String("objectKey", objectKey),
				logger.Error(delErr),
			)
		}
		return nil, fmt.Errorf("failed to enqueue grading task: %w", err)
	}

	s.logger.Info("Submission queued for grading",
		logger.String("taskId", taskID),
		logger.String("assignmentId", assignmentID),
		logger.String("filename", header.Filename),
	)

	return task, nil
}

// HandleGradingTask is the worker-side entry: fetch the stored bundle,
// grade it, persist the outcome in the task status.
func (s *GradingService) HandleGradingTask(ctx context.Context, task *queue.Task) error {
	objectKey, _ := task.Payload["objectKey"].(string)
	assignmentID, _ := task.Payload["assignmentId"].(string)
	if objectKey == "" || assignmentID == "" {
		return fmt.Errorf("invalid task payload: objectKey and assignmentId are required")
	}

	spec, err := s.loadSpec(assignmentID)
	if err != nil {
		return err
	}

	obj, err := s.storage.Get(ctx, objectKey)
	if err != nil {
		return fmt.Errorf("failed to fetch submission %s: %w", objectKey, err)
	}
	defer obj.Close()

	tmp, err := os.CreateTemp("", "submission_*"+filepath.Ext(objectKey))
	if err != nil {
		return fmt.Errorf("failed to create scratch file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.ReadFrom(obj); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to download submission %s: %w", objectKey, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to flush scratch file: %w", err)
	}

	result, err := s.GradeSubmission(ctx, tmp.Name(), spec)

	status := &queue.TaskStatus{
		TaskID:     task.ID,
		FinishedAt: time.Now(),
	}
	if err != nil {
		status.Status = string(models.StatusFailed)
		status.Error = err.Error()
	} else {
		status.Status = string(models.StatusCompleted)
		if data, marshalErr := json.Marshal(result); marshalErr == nil {
			status.Result = data
		}
	}
	if saveErr := s.queue.SaveFinalStatus(ctx, status); saveErr != nil {
		s.logger.Error("Failed to save grading status",
			logger.String("taskId", task.ID),
			logger.Error(saveErr),
		)
	}

	return err
}

// GetStatus reports a queued task's progress, including the grading
// result once completed.
func (s *GradingService) GetStatus(ctx context.Context, taskID string) (*models.GradingTask, error) {
	status, err := s.queue.GetTaskStatus(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("%w: grading task %s", errs.ErrNotFound, taskID)
	}

	task := &models.GradingTask{
		ID:        taskID,
		Status:    models.GradingStatus(status.Status),
		Error:     status.Error,
		UpdatedAt: status.FinishedAt,
	}
	if len(status.Result) > 0 {
		var result models.SubmissionResult
		if err := json.Unmarshal(status.Result, &result); err == nil {
			task.Result = &result
		}
	}
	return task, nil
}

func (s *GradingService) CancelTask(ctx context.Context, taskID string) error {
	return s.queue.CancelTask(ctx, taskID)
}

func (s *GradingService) loadSpec(assignmentID string) (*assignment.Spec, error) {
	if strings.ContainsAny(assignmentID, "/\\") || assignmentID == "" {
		return nil, fmt.Errorf("%w: invalid assignment id %q", errs.ErrInvalidFormat, assignmentID)
	}
	return assignment.Load(filepath.Join(s.config.AssignmentsDir, assignmentID+".yaml"))
}
