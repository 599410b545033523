package planglist

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/shlex"

	"github.com/devtutor/backend/execsrvc"
	"github.com/devtutor/backend/fslab"
)

const (
	compiledBinName  = "program"
	compileTimeLimMs = 60 * 1000
	compileOutputKiB = 64
)

// Adapter knows how to stage, build and invoke submissions for one
// language. All adapters share this implementation parameterized by
// the ProgrammingLang variant; the engine never branches on language
// ids itself.
type Adapter struct {
	lang         *ProgrammingLang
	envAllowList []string
}

// GetAdapter resolves the adapter for a language id.
func GetAdapter(langID string, envAllowList []string) (*Adapter, error) {
	lang, err := GetProgrammingLanguageById(langID)
	if err != nil {
		return nil, err
	}
	return &Adapter{lang: lang, envAllowList: envAllowList}, nil
}

func (a *Adapter) Language() *ProgrammingLang { return a.lang }

// Prepare stages the submission files into stageDir and compiles them
// when the language has a compile step. It returns *ToolchainError
// when the compiler/interpreter binary is not installed and
// *BuildError when compilation fails; both are graded, not fatal.
func (a *Adapter) Prepare(ctx context.Context, stageDir string, subm []fslab.SubmissionFile) error {
	if _, err := exec.LookPath(a.lang.ToolchainBin); err != nil {
		return &ToolchainError{Language: a.lang.ID, Binary: a.lang.ToolchainBin}
	}

	if err := os.MkdirAll(stageDir, 0755); err != nil {
		return fmt.Errorf("failed to create stage directory: %w", err)
	}
	for _, f := range subm {
		path := filepath.Join(stageDir, f.RelPath)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to stage %s: %w", f.RelPath, err)
		}
		if err := os.WriteFile(path, f.Content, 0644); err != nil {
			return fmt.Errorf("failed to stage %s: %w", f.RelPath, err)
		}
	}

	if a.lang.CompileCmd == nil {
		return nil
	}

	cmd, err := a.expandCommand(*a.lang.CompileCmd, stageDir)
	if err != nil {
		return err
	}
	res, err := execsrvc.Run(ctx, execsrvc.RunSpec{
		Cmd:            cmd,
		Dir:            stageDir,
		Env:            a.buildEnv(stageDir),
		WallTimeMs:     compileTimeLimMs,
		OutputLimitKiB: compileOutputKiB,
	})
	if err != nil {
		return fmt.Errorf("failed to run compiler: %w", err)
	}
	if res.Outcome == execsrvc.OutcomeTimedOut || res.ExitCode != 0 {
		diag := strings.TrimSpace(string(res.Stderr))
		if diag == "" {
			diag = strings.TrimSpace(string(res.Stdout))
		}
		if res.Outcome == execsrvc.OutcomeTimedOut {
			diag = "compilation exceeded the time limit"
		}
		return &BuildError{Diagnostics: diag}
	}
	return nil
}

// BuildCommand returns the concrete process invocation for one test
// case against a prepared stage directory. Limits are taken verbatim
// from the test case; the caller fills defaults beforehand.
func (a *Adapter) BuildCommand(stageDir string, testsDir string, tc fslab.TestCase) (execsrvc.RunSpec, error) {
	cmd, err := a.expandCommand(a.lang.ExecuteCmd, stageDir)
	if err != nil {
		return execsrvc.RunSpec{}, err
	}
	cmd = append(cmd, tc.Args...)

	stdinPath := ""
	if tc.StdinFile != "" {
		stdinPath = filepath.Join(testsDir, tc.StdinFile)
	}

	return execsrvc.RunSpec{
		Cmd:            cmd,
		Dir:            stageDir,
		StdinPath:      stdinPath,
		Env:            a.buildEnv(stageDir),
		WallTimeMs:     tc.TimeLimitMs,
		OutputLimitKiB: tc.OutputLimitKiB,
	}, nil
}

// CheckerCommand builds the verification run for a custom-checker test
// case. The checker receives the expected and actual output paths as
// its last two arguments and signals a pass with exit code 0.
func (a *Adapter) CheckerCommand(testsDir string, tc fslab.TestCase, expectedPath, actualPath string) (execsrvc.RunSpec, error) {
	fields, err := shlex.Split(tc.CheckerCmd)
	if err != nil {
		return execsrvc.RunSpec{}, fmt.Errorf("failed to parse checker command: %w", err)
	}
	if len(fields) == 0 {
		return execsrvc.RunSpec{}, fmt.Errorf("checker command is empty")
	}
	cmd := append(fields, expectedPath, actualPath)

	return execsrvc.RunSpec{
		Cmd:            cmd,
		Dir:            testsDir,
		Env:            a.buildEnv(testsDir),
		WallTimeMs:     tc.TimeLimitMs,
		OutputLimitKiB: tc.OutputLimitKiB,
	}, nil
}

// Cleanup removes a stage directory and everything the build left in it.
func (a *Adapter) Cleanup(stageDir string) {
	_ = os.RemoveAll(stageDir)
}

func (a *Adapter) buildEnv(stageDir string) []string {
	extra := make(map[string]string, len(a.lang.ExtraEnv))
	for name, value := range a.lang.ExtraEnv {
		extra[name] = strings.ReplaceAll(value, "{dir}", stageDir)
	}
	return execsrvc.ScrubEnv(a.envAllowList, extra)
}

func (a *Adapter) expandCommand(tpl string, stageDir string) ([]string, error) {
	expanded := tpl
	expanded = strings.ReplaceAll(expanded, "{main}", a.mainFile(stageDir))
	expanded = strings.ReplaceAll(expanded, "{bin}", compiledBinName)
	expanded = strings.ReplaceAll(expanded, "{dir}", stageDir)
	if strings.Contains(expanded, "{srcs}") {
		srcs, err := a.sourceFiles(stageDir)
		if err != nil {
			return nil, err
		}
		expanded = strings.ReplaceAll(expanded, "{srcs}", strings.Join(srcs, " "))
	}
	fields, err := shlex.Split(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to parse command template: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("command is empty after expansion")
	}
	return fields, nil
}

// mainFile picks the entry file: the language's preferred name when
// present, otherwise the lexicographically first source file.
func (a *Adapter) mainFile(stageDir string) string {
	preferred := filepath.Join(stageDir, a.lang.MainFilename)
	if _, err := os.Stat(preferred); err == nil {
		return a.lang.MainFilename
	}
	srcs, err := a.sourceFiles(stageDir)
	if err != nil || len(srcs) == 0 {
		return a.lang.MainFilename
	}
	return srcs[0]
}

func (a *Adapter) sourceFiles(stageDir string) ([]string, error) {
	entries, err := os.ReadDir(stageDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list stage directory: %w", err)
	}
	srcs := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), a.lang.SourceExt) {
			srcs = append(srcs, entry.Name())
		}
	}
	if len(srcs) == 0 {
		return nil, &BuildError{Diagnostics: fmt.Sprintf("no %s source files in submission", a.lang.SourceExt)}
	}
	sort.Strings(srcs)
	return srcs, nil
}
