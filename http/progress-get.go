package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"

	"github.com/devtutor/backend/httpjson"
)

// getCourseProgress returns the per-lab progress statuses of one
// course, grouped by unit. Unknown courses map to an empty object.
func (httpserver *HttpServer) getCourseProgress(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())
	courseId := chi.URLParam(r, "courseId")

	units, err := httpserver.gradeSrvc.Progress().GetCourse(courseId)
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	type courseProgressResponse struct {
		CourseID string                       `json:"courseId"`
		Units    map[string]map[string]string `json:"units"`
	}

	httpjson.WriteSuccessJson(w, courseProgressResponse{
		CourseID: courseId,
		Units:    units,
	})
}
