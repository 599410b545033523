package fslab_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtutor/backend/fslab"
	"github.com/devtutor/backend/srvcerror"
)

func newTestRoot(t *testing.T) *fslab.Root {
	t.Helper()
	root, err := fslab.NewRoot(t.TempDir())
	require.NoError(t, err)
	return root
}

func sampleArtifacts() fslab.Artifacts {
	return fslab.Artifacts{
		Title:     "Sum Two Numbers",
		Statement: "# Sum Two Numbers\n\nRead two integers and print their sum.\n",
		StarterFiles: []fslab.ArtifactFile{
			{RelPath: "main.py", Content: []byte("a, b = map(int, input().split())\n")},
		},
		TestFiles: []fslab.ArtifactFile{
			{RelPath: "t01.in", Content: []byte("1 2\n")},
			{RelPath: "t01.out", Content: []byte("3\n")},
			{RelPath: "t02.in", Content: []byte("-5 5\n")},
			{RelPath: "t02.out", Content: []byte("0\n")},
		},
		TestPlan: []fslab.TestCase{
			{ID: "t01", StdinFile: "t01.in", Compare: fslab.CompareExact, ExpectedFile: "t01.out", Weight: 1},
			{ID: "t02", StdinFile: "t02.in", Compare: fslab.CompareExact, ExpectedFile: "t02.out", Weight: 2},
		},
	}
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	srvcErr := &srvcerror.Error{}
	require.ErrorAs(t, err, &srvcErr)
	return srvcErr.ErrorCode()
}

func TestCreateAndReadLab(t *testing.T) {
	root := newTestRoot(t)

	labCtx := fslab.LabCtx{CourseID: "python-101", UnitID: "unit-1", LabID: "lab-sum"}
	created, err := root.CreateLab(labCtx, fslab.KindFull, "python", sampleArtifacts())
	require.NoError(t, err)
	require.Equal(t, "lab-sum", created.ID)

	for _, rel := range []string{
		"lab.toml",
		"README.md",
		filepath.Join("starter", "main.py"),
		filepath.Join("submission", "main.py"),
		filepath.Join("tests", "tests.toml"),
		filepath.Join("tests", "t01.in"),
		filepath.Join("tests", "t02.out"),
	} {
		_, err := os.Stat(filepath.Join(created.Dir().AbsPath, rel))
		assert.NoErrorf(t, err, "expected %s in lab layout", rel)
	}

	lab, err := root.ReadLab("lab-sum")
	require.NoError(t, err)
	assert.Equal(t, "python-101", lab.CourseID)
	assert.Equal(t, "unit-1", lab.UnitID)
	assert.Equal(t, fslab.KindFull, lab.Kind)
	assert.Equal(t, "python", lab.Language)
	assert.Equal(t, "Sum Two Numbers", lab.Title)
	assert.Equal(t, 0.6, lab.PassThreshold)
	require.Len(t, lab.TestPlan, 2)
	assert.Equal(t, "t01", lab.TestPlan[0].ID)
	assert.Equal(t, 2.0, lab.TestPlan[1].Weight)
	assert.Equal(t, 3.0, lab.TotalWeight())
}

func TestCreateLabGeneratesID(t *testing.T) {
	root := newTestRoot(t)

	labCtx := fslab.LabCtx{CourseID: "c", UnitID: "u"}
	created, err := root.CreateLab(labCtx, fslab.KindBugfix, "python", sampleArtifacts())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	lab, err := root.ReadLab(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, lab.ID)
}

func TestCreateLabIncompleteArtifacts(t *testing.T) {
	root := newTestRoot(t)
	labCtx := fslab.LabCtx{CourseID: "c", UnitID: "u", LabID: "lab-x"}

	noStatement := sampleArtifacts()
	noStatement.Statement = " "
	_, err := root.CreateLab(labCtx, fslab.KindFull, "python", noStatement)
	assert.Equal(t, fslab.ErrCodeArtifactIncomplete, errCode(t, err))

	noTests := sampleArtifacts()
	noTests.TestPlan = nil
	_, err = root.CreateLab(labCtx, fslab.KindFull, "python", noTests)
	assert.Equal(t, fslab.ErrCodeArtifactIncomplete, errCode(t, err))

	// a failed creation must not leave a partial lab behind
	_, err = root.ReadLab("lab-x")
	assert.Equal(t, fslab.ErrCodeLabNotFound, errCode(t, err))
}

func TestCreateLabAlreadyExists(t *testing.T) {
	root := newTestRoot(t)
	labCtx := fslab.LabCtx{CourseID: "c", UnitID: "u", LabID: "lab-dup"}

	_, err := root.CreateLab(labCtx, fslab.KindFull, "python", sampleArtifacts())
	require.NoError(t, err)

	_, err = root.CreateLab(labCtx, fslab.KindFull, "python", sampleArtifacts())
	assert.Equal(t, fslab.ErrCodeLabAlreadyExists, errCode(t, err))
}

func TestCreateLabRejectsEscapingArtifactPaths(t *testing.T) {
	root := newTestRoot(t)
	labCtx := fslab.LabCtx{CourseID: "c", UnitID: "u", LabID: "lab-esc"}

	arts := sampleArtifacts()
	arts.StarterFiles = append(arts.StarterFiles,
		fslab.ArtifactFile{RelPath: "../outside.py", Content: []byte("x")})
	_, err := root.CreateLab(labCtx, fslab.KindFull, "python", arts)
	require.Error(t, err)
}

func TestReadLabNotFound(t *testing.T) {
	root := newTestRoot(t)
	_, err := root.ReadLab("no-such-lab")
	assert.Equal(t, fslab.ErrCodeLabNotFound, errCode(t, err))
}

func TestReadLabCorrupt(t *testing.T) {
	root := newTestRoot(t)
	labCtx := fslab.LabCtx{CourseID: "c", UnitID: "u", LabID: "lab-bad"}
	created, err := root.CreateLab(labCtx, fslab.KindFull, "python", sampleArtifacts())
	require.NoError(t, err)

	manifest := filepath.Join(created.Dir().AbsPath, "lab.toml")
	require.NoError(t, os.WriteFile(manifest, []byte("not toml {{{"), 0644))

	_, err = root.ReadLab("lab-bad")
	assert.Equal(t, fslab.ErrCodeLabCorrupt, errCode(t, err))

	srvcErr := &srvcerror.Error{}
	require.True(t, errors.As(err, &srvcErr))
	assert.NotNil(t, srvcErr.DebugInfo())
}

func TestSubmissionReadHashReset(t *testing.T) {
	root := newTestRoot(t)
	labCtx := fslab.LabCtx{CourseID: "c", UnitID: "u", LabID: "lab-sub"}
	created, err := root.CreateLab(labCtx, fslab.KindFull, "python", sampleArtifacts())
	require.NoError(t, err)

	subm, err := root.ReadSubmission("lab-sub")
	require.NoError(t, err)
	require.Len(t, subm, 1)
	assert.Equal(t, "main.py", subm[0].RelPath)
	seededHash := fslab.SubmissionHash(subm)

	// the student edits their copy; the starter stays untouched
	edited := filepath.Join(created.Dir().SubmissionDir(), "main.py")
	require.NoError(t, os.WriteFile(edited, []byte("print(1+2)\n"), 0644))

	subm, err = root.ReadSubmission("lab-sub")
	require.NoError(t, err)
	editedHash := fslab.SubmissionHash(subm)
	assert.NotEqual(t, seededHash, editedHash)

	require.NoError(t, root.ResetSubmission("lab-sub"))
	subm, err = root.ReadSubmission("lab-sub")
	require.NoError(t, err)
	assert.Equal(t, seededHash, fslab.SubmissionHash(subm))
}

func TestSubmissionHashIsOrderIndependentOfWalk(t *testing.T) {
	a := []fslab.SubmissionFile{
		{RelPath: "a.py", Content: []byte("1")},
		{RelPath: "b.py", Content: []byte("2")},
	}
	b := []fslab.SubmissionFile{
		{RelPath: "a.py", Content: []byte("1")},
		{RelPath: "b.py", Content: []byte("2")},
	}
	assert.Equal(t, fslab.SubmissionHash(a), fslab.SubmissionHash(b))

	b[1].Content = []byte("3")
	assert.NotEqual(t, fslab.SubmissionHash(a), fslab.SubmissionHash(b))
}

func TestGradeRecordRoundTrip(t *testing.T) {
	root := newTestRoot(t)
	labCtx := fslab.LabCtx{CourseID: "c", UnitID: "u", LabID: "lab-grade"}
	created, err := root.CreateLab(labCtx, fslab.KindFull, "python", sampleArtifacts())
	require.NoError(t, err)

	_, err = root.ReadGradeRecord("lab-grade")
	assert.Equal(t, fslab.ErrCodeGradeRecordNotFound, errCode(t, err))

	grade := &fslab.GradeResult{
		LabID:          "lab-grade",
		AttemptID:      "attempt-1",
		SubmissionHash: "abc123",
		Timestamp:      time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		Score:          0.6667,
		Status:         fslab.StatusPassed,
		Tests: []fslab.TestGrade{
			{ID: "t01", Outcome: "completed", Passed: true, DurationMs: 12, Feedback: "passed"},
			{ID: "t02", Outcome: "completed", Passed: false, DurationMs: 9, Feedback: "output mismatch at line 1: got \"1\""},
		},
	}
	require.NoError(t, root.WriteGradeRecord("lab-grade", grade))

	got, err := root.ReadGradeRecord("lab-grade")
	require.NoError(t, err)
	assert.Equal(t, grade.AttemptID, got.AttemptID)
	assert.Equal(t, grade.Score, got.Score)
	assert.Equal(t, grade.Status, got.Status)
	require.Len(t, got.Tests, 2)
	assert.Equal(t, "t01", got.Tests[0].ID)

	// every grading run leaves an immutable history entry
	entries, err := os.ReadDir(filepath.Join(created.Dir().AbsPath, "grade_history"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "attempt-1")

	grade2 := *grade
	grade2.AttemptID = "attempt-2"
	grade2.Timestamp = grade.Timestamp.Add(5 * time.Minute)
	require.NoError(t, root.WriteGradeRecord("lab-grade", &grade2))

	entries, err = os.ReadDir(filepath.Join(created.Dir().AbsPath, "grade_history"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	got, err = root.ReadGradeRecord("lab-grade")
	require.NoError(t, err)
	assert.Equal(t, "attempt-2", got.AttemptID)
}
