package gradesrvc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/devtutor/backend/execsrvc"
	"github.com/devtutor/backend/fslab"
	"github.com/devtutor/backend/logger"
	"github.com/devtutor/backend/planglist"
)

// Submit grades the current submission snapshot of a lab. It is
// synchronous for the caller; internally the test cases run on a
// bounded worker pool, each in its own copy of the staged execution
// directory. The returned result lists tests in the plan's declared
// order. Cancelling ctx terminates all in-flight child processes and
// persists nothing.
func (s *GradeSrvc) Submit(ctx context.Context, labCtx fslab.LabCtx) (*fslab.GradeResult, error) {
	lab, err := s.root.ReadLab(labCtx.LabID)
	if err != nil {
		return nil, err
	}
	if labCtx.CourseID == "" {
		labCtx.CourseID = lab.CourseID
	}
	if labCtx.UnitID == "" {
		labCtx.UnitID = lab.UnitID
	}
	ctx = logger.WithLab(ctx, lab.ID)
	log := logger.FromContext(ctx)

	subm, err := s.root.ReadSubmission(lab.ID)
	if err != nil {
		return nil, err
	}
	submHash := fslab.SubmissionHash(subm)

	adapter, err := planglist.GetAdapter(lab.Language, s.cfg.EnvAllowList)
	if err != nil {
		return nil, err
	}

	plan := s.applyPlanDefaults(lab.TestPlan)

	if err := s.progress.RecordSubmission(labCtx); err != nil {
		return nil, fmt.Errorf("failed to record submission event: %w", err)
	}

	stageRoot, err := os.MkdirTemp("", "grade-"+lab.ID+"-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging root: %w", err)
	}
	defer os.RemoveAll(stageRoot)

	tests, err := s.runPlan(ctx, adapter, lab, subm, plan, stageRoot)
	if err != nil {
		return nil, err
	}

	grade, err := s.assembleGrade(lab, submHash, plan, tests)
	if err != nil {
		return nil, err
	}

	if err := s.root.WriteGradeRecord(lab.ID, grade); err != nil {
		return nil, err
	}
	if err := s.progress.RecordGrade(labCtx, grade); err != nil {
		return nil, fmt.Errorf("failed to record grade in progress store: %w", err)
	}

	log.Info("graded lab",
		"score", grade.Score,
		"status", grade.Status,
		"tests", len(grade.Tests))
	return grade, nil
}

// runPlan prepares the base stage and fans the test cases out to the
// worker pool. Build and toolchain failures short-circuit every test
// case to the same outcome without spawning any test process.
func (s *GradeSrvc) runPlan(ctx context.Context, adapter *planglist.Adapter, lab *fslab.Lab, subm []fslab.SubmissionFile, plan []fslab.TestCase, stageRoot string) ([]fslab.TestGrade, error) {
	baseDir := filepath.Join(stageRoot, "base")

	if err := adapter.Prepare(ctx, baseDir, subm); err != nil {
		buildErr := &planglist.BuildError{}
		if errors.As(err, &buildErr) {
			return shortCircuit(plan, execsrvc.OutcomeBuildFailed,
				buildFailedFeedback(buildErr.Diagnostics)), nil
		}
		toolErr := &planglist.ToolchainError{}
		if errors.As(err, &toolErr) {
			return shortCircuit(plan, execsrvc.OutcomeToolchainMissing,
				toolchainMissingFeedback(toolErr.Language, toolErr.Binary)), nil
		}
		return nil, err
	}
	defer adapter.Cleanup(baseDir)

	tests := make([]fslab.TestGrade, len(plan))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i := range plan {
		i := i
		g.Go(func() error {
			res, err := s.runTestCase(ctx, adapter, lab, plan[i], baseDir, stageRoot, i)
			if err != nil {
				return err
			}
			tests[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tests, nil
}

// runTestCase executes one test case in its own copy of the staged
// directory so tests never share filesystem state.
func (s *GradeSrvc) runTestCase(ctx context.Context, adapter *planglist.Adapter, lab *fslab.Lab, tc fslab.TestCase, baseDir, stageRoot string, idx int) (fslab.TestGrade, error) {
	testDir := filepath.Join(stageRoot, fmt.Sprintf("test-%02d", idx+1))
	if err := copyTree(baseDir, testDir); err != nil {
		return fslab.TestGrade{}, fmt.Errorf("failed to copy stage for test %s: %w", tc.ID, err)
	}

	spec, err := adapter.BuildCommand(testDir, lab.Dir().TestsDir(), tc)
	if err != nil {
		return fslab.TestGrade{}, fmt.Errorf("failed to build command for test %s: %w", tc.ID, err)
	}

	res, err := execsrvc.Run(ctx, spec)
	if err != nil {
		return fslab.TestGrade{}, err
	}

	grade := fslab.TestGrade{
		ID:         tc.ID,
		Outcome:    res.Outcome,
		DurationMs: res.WallMs,
	}

	switch res.Outcome {
	case execsrvc.OutcomeTimedOut:
		grade.Feedback = fmt.Sprintf("exceeded the %d ms time limit", spec.WallTimeMs)
	case execsrvc.OutcomeCrashed:
		grade.Feedback = crashFeedback(res.ExitCode, res.Stderr)
	default:
		passed, feedback, err := s.applyComparison(ctx, adapter, lab, tc, testDir, res)
		if err != nil {
			return fslab.TestGrade{}, err
		}
		grade.Passed = passed
		grade.Feedback = feedback
	}
	return grade, nil
}

// applyComparison checks the captured stdout against the test's rule.
// Truncated output is compared as captured, which will usually fail
// the check; that is the intended consequence of exceeding the cap.
func (s *GradeSrvc) applyComparison(ctx context.Context, adapter *planglist.Adapter, lab *fslab.Lab, tc fslab.TestCase, testDir string, res execsrvc.RunResult) (bool, string, error) {
	hideExpected := lab.Kind != fslab.KindFull

	if tc.Compare == fslab.CompareChecker {
		passed, err := s.runChecker(ctx, adapter, lab, tc, testDir, res.Stdout)
		if err != nil {
			return false, "", err
		}
		if passed {
			return true, "passed", nil
		}
		return false, "rejected by the checker", nil
	}

	expected, err := os.ReadFile(filepath.Join(lab.Dir().TestsDir(), tc.ExpectedFile))
	if err != nil {
		return false, "", fslab.ErrLabCorrupt().SetDebug(
			fmt.Errorf("reading expected output for test %s: %w", tc.ID, err))
	}

	var passed bool
	switch tc.Compare {
	case fslab.CompareNormalized:
		passed = compareNormalized(expected, res.Stdout)
	case fslab.CompareTolerance:
		passed = compareTolerance(expected, res.Stdout, tc.Epsilon)
	default:
		passed = compareExact(expected, res.Stdout)
	}
	if passed {
		return true, "passed", nil
	}
	return false, mismatchFeedback(expected, res.Stdout, hideExpected), nil
}

// runChecker writes the actual output next to the stage and runs the
// adapter-built verification command; exit code 0 means pass. A
// crashed or timed-out checker counts as a fail, not an engine error.
func (s *GradeSrvc) runChecker(ctx context.Context, adapter *planglist.Adapter, lab *fslab.Lab, tc fslab.TestCase, testDir string, actual []byte) (bool, error) {
	actualPath := filepath.Join(testDir, ".actual.out")
	if err := os.WriteFile(actualPath, actual, 0644); err != nil {
		return false, fmt.Errorf("failed to write actual output for checker: %w", err)
	}
	expectedPath := filepath.Join(lab.Dir().TestsDir(), tc.ExpectedFile)

	spec, err := adapter.CheckerCommand(lab.Dir().TestsDir(), tc, expectedPath, actualPath)
	if err != nil {
		return false, fslab.ErrLabCorrupt().SetDebug(err)
	}
	res, err := execsrvc.Run(ctx, spec)
	if err != nil {
		return false, err
	}
	return res.Outcome == execsrvc.OutcomeCompleted && res.ExitCode == 0, nil
}

func (s *GradeSrvc) assembleGrade(lab *fslab.Lab, submHash string, plan []fslab.TestCase, tests []fslab.TestGrade) (*fslab.GradeResult, error) {
	attemptID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate attempt id: %w", err)
	}

	var totalWeight, passedWeight float64
	for i, tc := range plan {
		totalWeight += tc.Weight
		if tests[i].Passed {
			passedWeight += tc.Weight
		}
	}
	score := 0.0
	if totalWeight > 0 {
		score = roundScore(passedWeight / totalWeight)
	}

	threshold := lab.PassThreshold
	if threshold <= 0 {
		threshold = s.cfg.DefaultThreshold
	}
	status := fslab.StatusFailed
	if score >= threshold {
		status = fslab.StatusPassed
	}

	return &fslab.GradeResult{
		LabID:          lab.ID,
		AttemptID:      attemptID.String(),
		SubmissionHash: submHash,
		Timestamp:      time.Now().UTC(),
		Score:          score,
		Status:         status,
		Tests:          tests,
	}, nil
}

func (s *GradeSrvc) applyPlanDefaults(plan []fslab.TestCase) []fslab.TestCase {
	out := make([]fslab.TestCase, len(plan))
	copy(out, plan)
	for i := range out {
		if out[i].TimeLimitMs <= 0 {
			out[i].TimeLimitMs = s.cfg.DefaultTimeLimMs
		}
		if out[i].OutputLimitKiB <= 0 {
			out[i].OutputLimitKiB = s.cfg.DefaultOutputKiB
		}
	}
	return out
}

func shortCircuit(plan []fslab.TestCase, outcome string, feedback string) []fslab.TestGrade {
	tests := make([]fslab.TestGrade, len(plan))
	for i, tc := range plan {
		tests[i] = fslab.TestGrade{
			ID:       tc.ID,
			Outcome:  outcome,
			Passed:   false,
			Feedback: feedback,
		}
	}
	return tests
}
