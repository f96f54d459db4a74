package handlers

import (
	"github.com/feichai0017/pbit-mentor/internal/service/grading"
	"github.com/feichai0017/pbit-mentor/pkg/logger"
)

// Handlers bundles the API handler groups.
type Handlers struct {
	Submission *SubmissionHandler
}

func NewHandlers(service grading.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Submission: NewSubmissionHandler(service, log),
	}
}
