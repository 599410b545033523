package execsrvc_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtutor/backend/execsrvc"
)

func TestRunCapturesOutputAndExitCode(t *testing.T) {
	dir := t.TempDir()

	res, err := execsrvc.Run(context.Background(), execsrvc.RunSpec{
		Cmd:        []string{"sh", "-c", "echo hello; echo oops 1>&2"},
		Dir:        dir,
		WallTimeMs: 5000,
	})
	require.NoError(t, err)
	assert.Equal(t, execsrvc.OutcomeCompleted, res.Outcome)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello\n", string(res.Stdout))
	assert.Equal(t, "oops\n", string(res.Stderr))
}

func TestRunReportsCrash(t *testing.T) {
	res, err := execsrvc.Run(context.Background(), execsrvc.RunSpec{
		Cmd:        []string{"sh", "-c", "echo broken 1>&2; exit 3"},
		Dir:        t.TempDir(),
		WallTimeMs: 5000,
	})
	require.NoError(t, err)
	assert.Equal(t, execsrvc.OutcomeCrashed, res.Outcome)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, string(res.Stderr), "broken")
}

func TestRunEnforcesWallClock(t *testing.T) {
	start := time.Now()
	res, err := execsrvc.Run(context.Background(), execsrvc.RunSpec{
		Cmd:        []string{"sh", "-c", "sleep 30"},
		Dir:        t.TempDir(),
		WallTimeMs: 200,
	})
	require.NoError(t, err)
	assert.Equal(t, execsrvc.OutcomeTimedOut, res.Outcome)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestRunKillsGrandchildren(t *testing.T) {
	// the inner sleep is a grandchild of Run's direct child; killing
	// the process group must not leave it running past the deadline
	start := time.Now()
	res, err := execsrvc.Run(context.Background(), execsrvc.RunSpec{
		Cmd:        []string{"sh", "-c", "sh -c 'sleep 30' & wait"},
		Dir:        t.TempDir(),
		WallTimeMs: 200,
	})
	require.NoError(t, err)
	assert.Equal(t, execsrvc.OutcomeTimedOut, res.Outcome)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestRunTruncatesOutput(t *testing.T) {
	res, err := execsrvc.Run(context.Background(), execsrvc.RunSpec{
		Cmd:            []string{"sh", "-c", "yes x | head -c 4096"},
		Dir:            t.TempDir(),
		WallTimeMs:     5000,
		OutputLimitKiB: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, execsrvc.OutcomeOutputTruncated, res.Outcome)
	assert.Len(t, res.Stdout, 1024)
}

func TestRunReadsStdinFixture(t *testing.T) {
	dir := t.TempDir()
	stdinPath := filepath.Join(dir, "t01.in")
	require.NoError(t, os.WriteFile(stdinPath, []byte("41\n"), 0644))

	res, err := execsrvc.Run(context.Background(), execsrvc.RunSpec{
		Cmd:        []string{"sh", "-c", "read n; echo $((n + 1))"},
		Dir:        dir,
		StdinPath:  stdinPath,
		WallTimeMs: 5000,
	})
	require.NoError(t, err)
	assert.Equal(t, execsrvc.OutcomeCompleted, res.Outcome)
	assert.Equal(t, "42\n", string(res.Stdout))
}

func TestRunHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := execsrvc.Run(ctx, execsrvc.RunSpec{
		Cmd:        []string{"sh", "-c", "sleep 30"},
		Dir:        t.TempDir(),
		WallTimeMs: 60000,
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunValidatesSpec(t *testing.T) {
	_, err := execsrvc.Run(context.Background(), execsrvc.RunSpec{Dir: t.TempDir()})
	assert.Error(t, err)

	_, err = execsrvc.Run(context.Background(), execsrvc.RunSpec{Cmd: []string{"true"}})
	assert.Error(t, err)
}

func TestScrubEnv(t *testing.T) {
	t.Setenv("GRADER_TEST_SECRET", "hunter2")
	t.Setenv("GRADER_TEST_KEPT", "visible")

	env := execsrvc.ScrubEnv(
		[]string{"GRADER_TEST_KEPT"},
		map[string]string{"EXTRA_VAR": "added"},
	)

	joined := strings.Join(env, "\n")
	assert.Contains(t, joined, "GRADER_TEST_KEPT=visible")
	assert.Contains(t, joined, "EXTRA_VAR=added")
	assert.NotContains(t, joined, "hunter2")
}
