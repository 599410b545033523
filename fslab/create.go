package fslab

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ArtifactFile is one file produced by the content generator, with a
// path relative to its target directory.
type ArtifactFile struct {
	RelPath string
	Content []byte
}

// Artifacts is everything the content generation gateway hands over
// for materializing a new lab workspace.
type Artifacts struct {
	Title        string
	Statement    string
	StarterFiles []ArtifactFile
	TestFiles    []ArtifactFile // fixtures and checker scripts, relative to tests/
	TestPlan     []TestCase
}

// CreateLab materializes the canonical on-disk layout from generator
// artifacts. The layout is built in a temporary directory and renamed
// into place so a failed creation leaves nothing behind. The new
// submission directory is seeded from the starter files.
func (r *Root) CreateLab(labCtx LabCtx, kind string, language string, arts Artifacts) (*Lab, error) {
	switch kind {
	case KindFull, KindBugfix, KindFill:
	default:
		return nil, fmt.Errorf("unknown lab kind: %s", kind)
	}
	if strings.TrimSpace(arts.Statement) == "" {
		return nil, ErrArtifactIncomplete("problem statement")
	}
	if len(arts.TestPlan) == 0 {
		return nil, ErrArtifactIncomplete("test cases")
	}

	labID := labCtx.LabID
	if labID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate lab id: %w", err)
		}
		labID = id.String()
	}

	dst := r.labDir(labID)
	if _, err := os.Stat(dst.AbsPath); err == nil {
		return nil, ErrLabAlreadyExists()
	}

	lab := &Lab{
		ID:            labID,
		CourseID:      labCtx.CourseID,
		UnitID:        labCtx.UnitID,
		Kind:          kind,
		Language:      language,
		Title:         arts.Title,
		PassThreshold: 0.6,
		Statement:     arts.Statement,
		TestPlan:      arts.TestPlan,
		dir:           dst,
	}

	tmp, err := os.MkdirTemp(filepath.Join(r.dir, labsDirName), ".create-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	if err := writeLabLayout(tmp, lab, arts); err != nil {
		return nil, err
	}

	if err := os.Rename(tmp, dst.AbsPath); err != nil {
		return nil, fmt.Errorf("failed to move lab into place: %w", err)
	}
	return lab, nil
}

func writeLabLayout(dir string, lab *Lab, arts Artifacts) error {
	labToml, err := encodeLabTOML(lab)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, labManifestFname), labToml, 0644); err != nil {
		return fmt.Errorf("failed to write lab.toml: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, statementFname), []byte(arts.Statement), 0644); err != nil {
		return fmt.Errorf("failed to write statement: %w", err)
	}

	starterDir := filepath.Join(dir, starterDirName)
	if err := writeArtifactFiles(starterDir, arts.StarterFiles); err != nil {
		return fmt.Errorf("failed to write starter files: %w", err)
	}

	testsDir := filepath.Join(dir, testsDirName)
	if err := writeArtifactFiles(testsDir, arts.TestFiles); err != nil {
		return fmt.Errorf("failed to write test fixtures: %w", err)
	}
	testsToml, err := encodeTestsTOML(arts.TestPlan)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(testsDir, testManifestFname), testsToml, 0644); err != nil {
		return fmt.Errorf("failed to write tests.toml: %w", err)
	}

	submissionDir := filepath.Join(dir, submissionDirName)
	if err := writeArtifactFiles(submissionDir, arts.StarterFiles); err != nil {
		return fmt.Errorf("failed to seed submission from starter: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(dir, gradeHistoryDir), 0755); err != nil {
		return fmt.Errorf("failed to create grade history directory: %w", err)
	}
	return nil
}

func writeArtifactFiles(dir string, files []ArtifactFile) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for _, f := range files {
		rel := filepath.Clean(f.RelPath)
		if rel == "." || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
			return fmt.Errorf("artifact file has invalid path: %s", f.RelPath)
		}
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, f.Content, 0644); err != nil {
			return err
		}
	}
	return nil
}
