package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"

	"github.com/devtutor/backend/fslab"
	"github.com/devtutor/backend/httpjson"
	"github.com/devtutor/backend/logger"
)

// createSubmission grades the lab's current submission directory and
// returns the grade record. Grading is synchronous; the request blocks
// until every test case has run.
func (httpserver *HttpServer) createSubmission(w http.ResponseWriter, r *http.Request) {
	log := httplog.LogEntry(r.Context())
	labId := chi.URLParam(r, "labId")

	ctx := logger.WithLogger(r.Context(), log)
	grade, err := httpserver.gradeSrvc.Submit(ctx, fslab.LabCtx{LabID: labId})
	if err != nil {
		httpjson.HandleError(log, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, grade)
}
