package fslab

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Root is the workspace root shared by all labs of an installation.
// Labs live under <dir>/labs/<lab-id>/, progress records under
// <dir>/progress/.
type Root struct {
	dir string

	// serializes grade record writers per lab id
	gradeMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewRoot(dir string) (*Root, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(abs, labsDirName), 0755); err != nil {
		return nil, fmt.Errorf("failed to create labs directory: %w", err)
	}
	return &Root{
		dir:   abs,
		locks: map[string]*sync.Mutex{},
	}, nil
}

func (r *Root) Dir() string { return r.dir }

// ProgressDir returns the directory holding per-course progress records.
func (r *Root) ProgressDir() string {
	return filepath.Join(r.dir, progressDirName)
}

func (r *Root) labDir(labID string) LabDir {
	return LabDir{AbsPath: filepath.Join(r.dir, labsDirName, labID)}
}

func (r *Root) labLock(labID string) *sync.Mutex {
	r.gradeMu.Lock()
	defer r.gradeMu.Unlock()
	mu, ok := r.locks[labID]
	if !ok {
		mu = &sync.Mutex{}
		r.locks[labID] = mu
	}
	return mu
}

func (d LabDir) manifestPath() string {
	return filepath.Join(d.AbsPath, labManifestFname)
}

func (d LabDir) StatementPath() string {
	return filepath.Join(d.AbsPath, statementFname)
}

func (d LabDir) StarterDir() string {
	return filepath.Join(d.AbsPath, starterDirName)
}

func (d LabDir) SubmissionDir() string {
	return filepath.Join(d.AbsPath, submissionDirName)
}

func (d LabDir) TestsDir() string {
	return filepath.Join(d.AbsPath, testsDirName)
}

func (d LabDir) testManifestPath() string {
	return filepath.Join(d.AbsPath, testsDirName, testManifestFname)
}

func (d LabDir) GradePath() string {
	return filepath.Join(d.AbsPath, gradeFname)
}

func (d LabDir) gradeHistoryDir() string {
	return filepath.Join(d.AbsPath, gradeHistoryDir)
}
