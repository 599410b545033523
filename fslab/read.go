package fslab

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ReadLab loads a lab from disk. A missing directory yields
// ErrLabNotFound; a present but unreadable lab (bad lab.toml or test
// manifest) yields ErrLabCorrupt.
func (r *Root) ReadLab(labID string) (*Lab, error) {
	dir := r.labDir(labID)
	if _, err := os.Stat(dir.AbsPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrLabNotFound()
		}
		return nil, fmt.Errorf("failed to stat lab directory: %w", err)
	}

	manifest, err := os.ReadFile(dir.manifestPath())
	if err != nil {
		return nil, ErrLabCorrupt().SetDebug(fmt.Errorf("reading lab.toml: %w", err))
	}
	meta, err := decodeLabTOML(manifest)
	if err != nil {
		return nil, ErrLabCorrupt().SetDebug(err)
	}

	testManifest, err := os.ReadFile(dir.testManifestPath())
	if err != nil {
		return nil, ErrLabCorrupt().SetDebug(fmt.Errorf("reading tests.toml: %w", err))
	}
	plan, err := decodeTestsTOML(testManifest)
	if err != nil {
		return nil, ErrLabCorrupt().SetDebug(err)
	}

	statement, err := os.ReadFile(dir.StatementPath())
	if err != nil {
		return nil, ErrLabCorrupt().SetDebug(fmt.Errorf("reading statement: %w", err))
	}

	threshold := meta.PassThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = 0.6
	}

	return &Lab{
		ID:            meta.ID,
		CourseID:      meta.Course,
		UnitID:        meta.Unit,
		Kind:          meta.Kind,
		Language:      meta.Language,
		Title:         meta.Title,
		PassThreshold: threshold,
		Statement:     string(statement),
		TestPlan:      plan,
		dir:           dir,
	}, nil
}
