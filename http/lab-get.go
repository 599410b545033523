package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"

	"github.com/devtutor/backend/fslab"
	"github.com/devtutor/backend/httpjson"
)

// Lab is the outward lab view. The test plan's expected outputs stay
// server-side; only the observable shape of each test is exposed.
type Lab struct {
	ID            string    `json:"id"`
	CourseID      string    `json:"courseId"`
	UnitID        string    `json:"unitId"`
	Kind          string    `json:"kind"`
	Language      string    `json:"language"`
	Title         string    `json:"title"`
	PassThreshold float64   `json:"passThreshold"`
	Statement     string    `json:"statement"`
	Tests         []LabTest `json:"tests"`
}

type LabTest struct {
	ID          string  `json:"id"`
	Compare     string  `json:"compare"`
	Weight      float64 `json:"weight"`
	TimeLimitMs int     `json:"timeLimitMs,omitempty"`
}

func (httpserver *HttpServer) getLab(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())
	labId := chi.URLParam(r, "labId")

	lab, err := httpserver.gradeSrvc.Root().ReadLab(labId)
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, mapLabResponse(lab))
}

func mapLabResponse(lab *fslab.Lab) *Lab {
	tests := make([]LabTest, len(lab.TestPlan))
	for i, tc := range lab.TestPlan {
		tests[i] = LabTest{
			ID:          tc.ID,
			Compare:     tc.Compare,
			Weight:      tc.Weight,
			TimeLimitMs: tc.TimeLimitMs,
		}
	}
	return &Lab{
		ID:            lab.ID,
		CourseID:      lab.CourseID,
		UnitID:        lab.UnitID,
		Kind:          lab.Kind,
		Language:      lab.Language,
		Title:         lab.Title,
		PassThreshold: lab.PassThreshold,
		Statement:     lab.Statement,
		Tests:         tests,
	}
}
