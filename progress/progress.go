package progress

import (
	"time"
)

// Per-lab statuses. Transitions are driven only by grade results and
// explicit submission-touch events:
//
//	not_started -> in_progress -> submitted -> {passed, failed}
//	failed -> submitted (resubmission)
//	passed -> submitted (explicit resubmission only, never automatic)
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusSubmitted  = "submitted"
	StatusPassed     = "passed"
	StatusFailed     = "failed"
)

// LabProgress is the durable per-lab record. Attempts counts grading
// runs; BestScore keeps the highest score ever reached.
type LabProgress struct {
	Status       string     `json:"status"`
	Attempts     int        `json:"attempts"`
	BestScore    float64    `json:"bestScore"`
	LastGradedAt *time.Time `json:"lastGradedAt,omitempty"`
}

// CourseProgress is the persisted per-course state: unit id -> lab id
// -> progress.
type CourseProgress struct {
	CourseID string                            `json:"courseId"`
	Units    map[string]map[string]LabProgress `json:"units"`
}

func (c *CourseProgress) lab(unitID, labID string) LabProgress {
	if c.Units == nil {
		return LabProgress{Status: StatusNotStarted}
	}
	unit, ok := c.Units[unitID]
	if !ok {
		return LabProgress{Status: StatusNotStarted}
	}
	rec, ok := unit[labID]
	if !ok {
		return LabProgress{Status: StatusNotStarted}
	}
	return rec
}

func (c *CourseProgress) setLab(unitID, labID string, rec LabProgress) {
	if c.Units == nil {
		c.Units = map[string]map[string]LabProgress{}
	}
	if c.Units[unitID] == nil {
		c.Units[unitID] = map[string]LabProgress{}
	}
	c.Units[unitID][labID] = rec
}
