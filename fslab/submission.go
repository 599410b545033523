package fslab

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// SubmissionFile is one student-owned file, path relative to the
// submission directory.
type SubmissionFile struct {
	RelPath string
	Content []byte
}

// ReadSubmission returns the student's files ordered by relative path.
// The submission directory is mutated externally (by the editor); this
// component only ever reads it.
func (r *Root) ReadSubmission(labID string) ([]SubmissionFile, error) {
	lab, err := r.ReadLab(labID)
	if err != nil {
		return nil, err
	}
	return readFileTree(lab.dir.SubmissionDir())
}

// SubmissionHash computes a content hash over the ordered submission
// snapshot. Two identical submissions hash identically, which makes
// re-grading unchanged content detectable as idempotent.
func SubmissionHash(files []SubmissionFile) string {
	hasher := sha256.New()
	for _, f := range files {
		hasher.Write([]byte(f.RelPath))
		hasher.Write([]byte{0})
		hasher.Write(f.Content)
		hasher.Write([]byte{0})
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

// ResetSubmission restores the submission directory to the immutable
// starter files, discarding the student's edits.
func (r *Root) ResetSubmission(labID string) error {
	lab, err := r.ReadLab(labID)
	if err != nil {
		return err
	}
	subDir := lab.dir.SubmissionDir()
	if err := os.RemoveAll(subDir); err != nil {
		return fmt.Errorf("failed to clear submission directory: %w", err)
	}
	starter, err := readFileTree(lab.dir.StarterDir())
	if err != nil {
		return fmt.Errorf("failed to read starter files: %w", err)
	}
	files := make([]ArtifactFile, len(starter))
	for i, f := range starter {
		files[i] = ArtifactFile{RelPath: f.RelPath, Content: f.Content}
	}
	if err := writeArtifactFiles(subDir, files); err != nil {
		return fmt.Errorf("failed to restore starter files: %w", err)
	}
	return nil
}

func readFileTree(dir string) ([]SubmissionFile, error) {
	var files []SubmissionFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files = append(files, SubmissionFile{RelPath: rel, Content: content})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].RelPath < files[j].RelPath
	})
	return files, nil
}
