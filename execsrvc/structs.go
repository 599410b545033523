package execsrvc

// Terminal outcomes of one test-case run. A run moves from pending to
// running once the child process is spawned, and ends in exactly one
// of these.
const (
	OutcomeCompleted       = "completed"
	OutcomeTimedOut        = "timed-out"
	OutcomeOutputTruncated = "output-truncated"
	OutcomeCrashed         = "crashed"

	// set by the grading layer, never by the controller itself
	OutcomeBuildFailed      = "build-failed"
	OutcomeToolchainMissing = "toolchain-missing"
)

// RunSpec describes one child-process run: the concrete invocation an
// adapter built for a test case, plus the enforced limits.
type RunSpec struct {
	Cmd       []string // argv, absolute or PATH-resolved binary first
	Dir       string   // staged execution directory, also the working dir
	StdinPath string   // stdin fixture, empty means empty stdin
	Env       []string // scrubbed KEY=VALUE entries, see ScrubEnv

	WallTimeMs     int // wall-clock deadline, 0 means no limit
	OutputLimitKiB int // per-stream capture cap, 0 means default
}

// RunResult is what the controller reports back for one run.
type RunResult struct {
	ExitCode int
	Stdout   []byte // capped at OutputLimitKiB
	Stderr   []byte // capped at OutputLimitKiB
	WallMs   int64
	Outcome  string
}

const defaultOutputLimitKiB = 64
