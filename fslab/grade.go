package fslab

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Overall grade statuses.
const (
	StatusPassed = "passed"
	StatusFailed = "failed"
)

// GradeResult is the persisted outcome of one grading run. It is
// immutable once computed; resubmission produces a new result and the
// previous ones are retained under grade_history/.
type GradeResult struct {
	LabID          string      `json:"labId"`
	AttemptID      string      `json:"attemptId"`
	SubmissionHash string      `json:"submissionHash"`
	Timestamp      time.Time   `json:"timestamp"`
	Score          float64     `json:"score"`
	Status         string      `json:"status"`
	Tests          []TestGrade `json:"tests"`
}

// TestGrade is the per-test entry of a GradeResult, listed in the test
// plan's declared order.
type TestGrade struct {
	ID         string `json:"id"`
	Outcome    string `json:"outcome"`
	Passed     bool   `json:"passed"`
	DurationMs int64  `json:"durationMs"`
	Feedback   string `json:"feedback"`
}

// WriteGradeRecord persists a grade result with write-temp-then-rename
// discipline: either grade.json is fully replaced or the previous
// record stays intact. Writers for the same lab are serialized; a held
// lock yields ErrGradeRecordConflict instead of blocking.
func (r *Root) WriteGradeRecord(labID string, grade *GradeResult) error {
	lab, err := r.ReadLab(labID)
	if err != nil {
		return err
	}

	mu := r.labLock(labID)
	if !mu.TryLock() {
		return ErrGradeRecordConflict()
	}
	defer mu.Unlock()

	content, err := json.MarshalIndent(grade, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal grade record: %w", err)
	}

	if err := atomicWrite(lab.dir.GradePath(), content); err != nil {
		return fmt.Errorf("failed to write grade record: %w", err)
	}

	historyDir := lab.dir.gradeHistoryDir()
	if err := os.MkdirAll(historyDir, 0755); err != nil {
		return fmt.Errorf("failed to create grade history directory: %w", err)
	}
	historyFname := fmt.Sprintf("%s-%s.json",
		grade.Timestamp.UTC().Format("20060102T150405Z"), grade.AttemptID)
	if err := atomicWrite(filepath.Join(historyDir, historyFname), content); err != nil {
		return fmt.Errorf("failed to write grade history entry: %w", err)
	}
	return nil
}

// ReadGradeRecord loads the latest grade result of a lab.
func (r *Root) ReadGradeRecord(labID string) (*GradeResult, error) {
	lab, err := r.ReadLab(labID)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(lab.dir.GradePath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrGradeRecordNotFound()
		}
		return nil, fmt.Errorf("failed to read grade record: %w", err)
	}
	var grade GradeResult
	if err := json.Unmarshal(content, &grade); err != nil {
		return nil, fmt.Errorf("failed to unmarshal grade record: %w", err)
	}
	return &grade, nil
}

func atomicWrite(path string, content []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
