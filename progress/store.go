package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/devtutor/backend/fslab"
)

// Store persists one CourseProgress JSON file per course. Writes go
// through a single mutex and land with temp-then-rename, so a crashed
// update leaves the previous record intact.
type Store struct {
	dir string
	mu  sync.Mutex
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create progress directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// TouchLab marks a lab as entered. Only a not_started lab changes
// state; re-opening a lab in any later state is a no-op.
func (s *Store) TouchLab(labCtx fslab.LabCtx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, err := s.readCourse(labCtx.CourseID)
	if err != nil {
		return err
	}
	rec := course.lab(labCtx.UnitID, labCtx.LabID)
	if rec.Status != StatusNotStarted {
		return nil
	}
	rec.Status = StatusInProgress
	course.setLab(labCtx.UnitID, labCtx.LabID, rec)
	return s.writeCourse(course)
}

// RecordSubmission is the explicit resubmission event. It moves any
// state, including passed, to submitted.
func (s *Store) RecordSubmission(labCtx fslab.LabCtx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, err := s.readCourse(labCtx.CourseID)
	if err != nil {
		return err
	}
	rec := course.lab(labCtx.UnitID, labCtx.LabID)
	rec.Status = StatusSubmitted
	course.setLab(labCtx.UnitID, labCtx.LabID, rec)
	return s.writeCourse(course)
}

// RecordGrade applies a grade result. A passed lab is never downgraded
// unless the grade follows an explicit resubmission (state submitted).
func (s *Store) RecordGrade(labCtx fslab.LabCtx, grade *fslab.GradeResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, err := s.readCourse(labCtx.CourseID)
	if err != nil {
		return err
	}
	rec := course.lab(labCtx.UnitID, labCtx.LabID)

	next := StatusFailed
	if grade.Status == fslab.StatusPassed {
		next = StatusPassed
	}
	if rec.Status == StatusPassed && next == StatusFailed {
		next = StatusPassed
	}

	rec.Status = next
	rec.Attempts++
	if grade.Score > rec.BestScore {
		rec.BestScore = grade.Score
	}
	gradedAt := grade.Timestamp.UTC()
	rec.LastGradedAt = &gradedAt
	course.setLab(labCtx.UnitID, labCtx.LabID, rec)
	return s.writeCourse(course)
}

// GetCourse returns unit id -> lab id -> status for a course. An
// unknown course yields an empty mapping, not an error.
func (s *Store) GetCourse(courseID string) (map[string]map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, err := s.readCourse(courseID)
	if err != nil {
		return nil, err
	}
	res := map[string]map[string]string{}
	for unitID, labs := range course.Units {
		res[unitID] = map[string]string{}
		for labID, rec := range labs {
			res[unitID][labID] = rec.Status
		}
	}
	return res, nil
}

// GetLab returns the full per-lab record.
func (s *Store) GetLab(labCtx fslab.LabCtx) (LabProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, err := s.readCourse(labCtx.CourseID)
	if err != nil {
		return LabProgress{}, err
	}
	return course.lab(labCtx.UnitID, labCtx.LabID), nil
}

func (s *Store) coursePath(courseID string) string {
	return filepath.Join(s.dir, courseID+".json")
}

func (s *Store) readCourse(courseID string) (*CourseProgress, error) {
	content, err := os.ReadFile(s.coursePath(courseID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &CourseProgress{CourseID: courseID}, nil
		}
		return nil, fmt.Errorf("failed to read progress record: %w", err)
	}
	var course CourseProgress
	if err := json.Unmarshal(content, &course); err != nil {
		return nil, fmt.Errorf("failed to unmarshal progress record: %w", err)
	}
	return &course, nil
}

func (s *Store) writeCourse(course *CourseProgress) error {
	content, err := json.MarshalIndent(course, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal progress record: %w", err)
	}
	path := s.coursePath(course.CourseID)
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp progress file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write progress record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp progress file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace progress record: %w", err)
	}
	return nil
}
