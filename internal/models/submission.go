package models

import (
	"time"
)

// Section 评分部分
type Section string

const (
	SectionDAX    Section = "dax"
	SectionVisual Section = "visual"
	SectionWrite  Section = "write"
)

// Evaluation is a single rubric-scored result returned by an evaluator
// backend.
type Evaluation struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// SectionResult couples a section with its evaluation. A nil Evaluation
// means the assignment had no question for that section.
type SectionResult struct {
	Section    Section     `json:"section"`
	Evaluation *Evaluation `json:"evaluation,omitempty"`
}

// SubmissionResult is the combined outcome of grading one submission.
type SubmissionResult struct {
	Score    float64         `json:"score"`
	Feedback string          `json:"feedback"`
	Sections []SectionResult `json:"sections"`
}

// GradingTask tracks one queued grading request.
type GradingTask struct {
	ID           string            `json:"id"`
	Status       GradingStatus     `json:"status"`
	AssignmentID string            `json:"assignmentId"`
	Priority     int               `json:"priority"`
	Error        string            `json:"error,omitempty"`
	Result       *SubmissionResult `json:"result,omitempty"`
	Metadata     map[string]string `json:"metadata"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt,omitempty"`
}

type GradingStatus string

const (
	StatusPending   GradingStatus = "pending"
	StatusRunning   GradingStatus = "running"
	StatusCompleted GradingStatus = "completed"
	StatusFailed    GradingStatus = "failed"
	StatusCancelled GradingStatus = "cancelled"
)
