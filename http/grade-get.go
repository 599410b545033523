package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"

	"github.com/devtutor/backend/httpjson"
)

func (httpserver *HttpServer) getGrade(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())
	labId := chi.URLParam(r, "labId")

	grade, err := httpserver.gradeSrvc.Root().ReadGradeRecord(labId)
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, grade)
}
