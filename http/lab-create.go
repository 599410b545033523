package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/httplog/v2"

	"github.com/devtutor/backend/fslab"
	"github.com/devtutor/backend/gensrvc"
	"github.com/devtutor/backend/httpjson"
)

type createLabRequest struct {
	CourseID string `json:"courseId"`
	UnitID   string `json:"unitId"`
	LabID    string `json:"labId"`
	Kind     string `json:"kind"`
	Language string `json:"language"`
}

func (httpserver *HttpServer) createLab(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	var req createLabRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.WriteErrorJson(w, "invalid request body", http.StatusBadRequest, "invalid_request_body")
		return
	}

	labCtx := fslab.LabCtx{
		CourseID: req.CourseID,
		UnitID:   req.UnitID,
		LabID:    req.LabID,
	}
	lab, err := gensrvc.CreateLab(r.Context(), httpserver.gradeSrvc.Root(), httpserver.genGw, labCtx, req.Kind, req.Language)
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, mapLabResponse(lab))
}
