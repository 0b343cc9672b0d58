package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cmmsmind/backend/internal/apierrors"
	"github.com/cmmsmind/backend/internal/jobs"
)

// JobRunner lists and triggers background jobs.
type JobRunner interface {
	ListJobs() []*jobs.Job
	RunNow(name string) error
}

type JobHandler struct {
	base
	runner JobRunner
}

func NewJobHandler(runner JobRunner, b base) *JobHandler {
	return &JobHandler{base: b, runner: runner}
}

func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	writeList(w, h.runner.ListJobs())
}

// Run starts a job immediately and answers 202 without waiting for it.
func (h *JobHandler) Run(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.runner.RunNow(name); err != nil {
		if errors.Is(err, jobs.ErrUnknownJob) {
			apierrors.NewNotFoundError("job", name).Write(w, r)
			return
		}
		h.fail(w, r, err, "job", name)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"job": name, "status": "started"})
}
