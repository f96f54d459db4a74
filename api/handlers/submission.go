package handlers

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/feichai0017/pbit-mentor/internal/errs"
	"github.com/feichai0017/pbit-mentor/internal/pbit"
	"github.com/feichai0017/pbit-mentor/internal/service/grading"
	"github.com/feichai0017/pbit-mentor/pkg/logger"
)

type SubmissionHandler struct {
	service  grading.Service
	analyzer *pbit.Analyzer
	logger   logger.Logger
}

// SubmitResponse 定义提交响应结构
type SubmitResponse struct {
	TaskID       string `json:"taskId"`
	Status       string `json:"status"`
	AssignmentID string `json:"assignmentId"`
	Filename     string `json:"filename"`
	CreatedAt    string `json:"createdAt"`
}

// ErrorResponse 定义错误响应结构
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func NewSubmissionHandler(service grading.Service, log logger.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service:  service,
		analyzer: pbit.NewAnalyzer(log),
		logger:   log,
	}
}

// SubmitSubmission accepts an uploaded submission bundle and queues it
// for grading.
func (h *SubmissionHandler) SubmitSubmission(c *gin.Context) {
	assignmentID := c.PostForm("assignmentId")
	if assignmentID == "" {
		h.handleError(c, http.StatusBadRequest, "Missing assignmentId", nil)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid file upload", err)
		return
	}
	defer file.Close()

	task, err := h.service.SubmitSubmission(c.Request.Context(), file, header, assignmentID)
	if err != nil {
		h.handleError(c, statusFor(err), "Failed to submit submission", err)
		return
	}

	c.JSON(http.StatusOK, SubmitResponse{
		TaskID:       task.ID,
		Status:       string(task.Status),
		AssignmentID: task.AssignmentID,
		Filename:     header.Filename,
		CreatedAt:    task.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// GetStatus reports a grading task's state and, once done, its result.
func (h *SubmissionHandler) GetStatus(c *gin.Context) {
	taskID := c.Param("taskId")
	if taskID == "" {
		h.handleError(c, http.StatusBadRequest, "Missing taskId", nil)
		return
	}

	task, err := h.service.GetStatus(c.Request.Context(), taskID)
	if err != nil {
		h.handleError(c, statusFor(err), "Failed to get task status", err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// CancelTask removes a pending grading task from the queue.
func (h *SubmissionHandler) CancelTask(c *gin.Context) {
	taskID := c.Param("taskId")
	if taskID == "" {
		h.handleError(c, http.StatusBadRequest, "Missing taskId", nil)
		return
	}

	if err := h.service.CancelTask(c.Request.Context(), taskID); err != nil {
		h.handleError(c, statusFor(err), "Failed to cancel task", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"taskId": taskID, "status": "cancelled"})
}

// AnalyzeTemplate runs the synchronous pipeline on an uploaded .pbit
// and returns the plain-text report. No evaluator call is involved.
func (h *SubmissionHandler) AnalyzeTemplate(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid file upload", err)
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pbit") {
		h.handleError(c, http.StatusBadRequest, "Expected a .pbit file", nil)
		return
	}

	tmp, err := os.CreateTemp("", "analyze_*.pbit")
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to create scratch file", err)
		return
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		h.handleError(c, http.StatusInternalServerError, "Failed to buffer upload", err)
		return
	}
	tmp.Close()

	report, err := h.analyzer.Analyze(tmp.Name())
	if err != nil {
		h.handleError(c, statusFor(err), "Failed to analyze template", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requestId": uuid.New().String(),
		"filename":  header.Filename,
		"report":    report,
	})
}

func (h *SubmissionHandler) handleError(c *gin.Context, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Message = err.Error()
		h.logger.Error(message, logger.Error(err))
	}
	c.JSON(status, resp)
}

// statusFor maps the grading error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidFormat), errors.Is(err, errs.ErrCorrupt):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrMalformedContent):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
