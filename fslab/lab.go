package fslab

// Lab kinds. A "full" lab ships an empty scaffold, "bugfix" ships broken
// starter code, "fill" ships starter code with TODO gaps.
const (
	KindFull   = "full"
	KindBugfix = "bugfix"
	KindFill   = "fill"
)

// Expected-output comparison rules applied by the grading aggregator.
const (
	CompareExact      = "exact"
	CompareNormalized = "normalized-whitespace"
	CompareTolerance  = "tolerance"
	CompareChecker    = "custom-checker"
)

// LabCtx identifies a lab explicitly. Every core call threads one of
// these instead of relying on a process-wide "current lab" cursor.
type LabCtx struct {
	CourseID string
	UnitID   string
	LabID    string
}

// Lab is the in-memory view of one on-disk lab workspace. Test cases
// and starter files never change after creation; regenerating a lab
// produces a new lab id.
type Lab struct {
	ID            string
	CourseID      string
	UnitID        string
	Kind          string
	Language      string
	Title         string
	PassThreshold float64

	Statement string
	TestPlan  []TestCase

	dir LabDir
}

// Dir returns the on-disk location of the lab.
func (l *Lab) Dir() LabDir { return l.dir }

// TotalWeight sums the weights of the test plan.
func (l *Lab) TotalWeight() float64 {
	var sum float64
	for _, tc := range l.TestPlan {
		sum += tc.Weight
	}
	return sum
}

// TestCase is one entry of the lab's ordered, weighted test plan.
type TestCase struct {
	ID string

	// Invocation: extra arguments appended to the adapter's run
	// command, and an optional stdin fixture relative to tests/.
	Args      []string
	StdinFile string

	// Comparison rule against the expected output fixture.
	Compare      string
	ExpectedFile string
	Epsilon      float64 // tolerance rule only
	CheckerCmd   string  // custom-checker rule only, relative to tests/

	Weight         float64
	TimeLimitMs    int
	OutputLimitKiB int
}

// LabDir locates the canonical lab layout on disk.
type LabDir struct {
	AbsPath string // absolute path to the lab directory
}

// File and directory names of the canonical lab layout.
const (
	labManifestFname  = "lab.toml"
	statementFname    = "README.md"
	starterDirName    = "starter"
	submissionDirName = "submission"
	testsDirName      = "tests"
	testManifestFname = "tests.toml"
	gradeFname        = "grade.json"
	gradeHistoryDir   = "grade_history"
	labsDirName       = "labs"
	progressDirName   = "progress"
)
