package fslab

import (
	"fmt"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type labTOML struct {
	ID            string  `toml:"id"`
	Course        string  `toml:"course"`
	Unit          string  `toml:"unit"`
	Kind          string  `toml:"kind"`
	Language      string  `toml:"language"`
	Title         string  `toml:"title"`
	PassThreshold float64 `toml:"pass_threshold"`
	CreatedAt     string  `toml:"created_at"`
}

type testsTOML struct {
	Tests []testTOML `toml:"tests"`
}

type testTOML struct {
	ID             string   `toml:"id"`
	Args           []string `toml:"args,omitempty"`
	StdinFile      string   `toml:"stdin_file,omitempty"`
	Compare        string   `toml:"compare"`
	ExpectedFile   string   `toml:"expected_file,omitempty"`
	Epsilon        float64  `toml:"epsilon,omitempty"`
	CheckerCmd     string   `toml:"checker_cmd,omitempty"`
	Weight         float64  `toml:"weight"`
	TimeLimitMs    int      `toml:"time_limit_ms,omitempty"`
	OutputLimitKiB int      `toml:"output_limit_kib,omitempty"`
}

func encodeLabTOML(lab *Lab) ([]byte, error) {
	t := labTOML{
		ID:            lab.ID,
		Course:        lab.CourseID,
		Unit:          lab.UnitID,
		Kind:          lab.Kind,
		Language:      lab.Language,
		Title:         lab.Title,
		PassThreshold: lab.PassThreshold,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	bytes, err := toml.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lab.toml: %w", err)
	}
	return bytes, nil
}

func decodeLabTOML(content []byte) (labTOML, error) {
	var t labTOML
	if err := toml.Unmarshal(content, &t); err != nil {
		return labTOML{}, fmt.Errorf("failed to unmarshal lab.toml: %w", err)
	}
	if t.ID == "" {
		return labTOML{}, fmt.Errorf("lab.toml has no id")
	}
	switch t.Kind {
	case KindFull, KindBugfix, KindFill:
	default:
		return labTOML{}, fmt.Errorf("lab.toml has unknown kind: %s", t.Kind)
	}
	if t.Language == "" {
		return labTOML{}, fmt.Errorf("lab.toml has no language")
	}
	return t, nil
}

func encodeTestsTOML(plan []TestCase) ([]byte, error) {
	t := testsTOML{Tests: make([]testTOML, len(plan))}
	for i, tc := range plan {
		t.Tests[i] = testTOML{
			ID:             tc.ID,
			Args:           tc.Args,
			StdinFile:      tc.StdinFile,
			Compare:        tc.Compare,
			ExpectedFile:   tc.ExpectedFile,
			Epsilon:        tc.Epsilon,
			CheckerCmd:     tc.CheckerCmd,
			Weight:         tc.Weight,
			TimeLimitMs:    tc.TimeLimitMs,
			OutputLimitKiB: tc.OutputLimitKiB,
		}
	}
	bytes, err := toml.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tests.toml: %w", err)
	}
	return bytes, nil
}

func decodeTestsTOML(content []byte) ([]TestCase, error) {
	var t testsTOML
	if err := toml.Unmarshal(content, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tests.toml: %w", err)
	}
	if len(t.Tests) == 0 {
		return nil, fmt.Errorf("tests.toml declares no test cases")
	}
	plan := make([]TestCase, len(t.Tests))
	totalWeight := 0.0
	for i, tc := range t.Tests {
		if tc.ID == "" {
			tc.ID = fmt.Sprintf("t%02d", i+1)
		}
		if tc.Compare == "" {
			tc.Compare = CompareExact
		}
		switch tc.Compare {
		case CompareExact, CompareNormalized, CompareTolerance, CompareChecker:
		default:
			return nil, fmt.Errorf("test %s has unknown compare rule: %s", tc.ID, tc.Compare)
		}
		if tc.Compare == CompareChecker && tc.CheckerCmd == "" {
			return nil, fmt.Errorf("test %s uses custom-checker without checker_cmd", tc.ID)
		}
		if tc.Weight < 0 {
			return nil, fmt.Errorf("test %s has negative weight", tc.ID)
		}
		if tc.Weight == 0 {
			tc.Weight = 1.0
		}
		totalWeight += tc.Weight
		plan[i] = TestCase{
			ID:             tc.ID,
			Args:           tc.Args,
			StdinFile:      tc.StdinFile,
			Compare:        tc.Compare,
			ExpectedFile:   tc.ExpectedFile,
			Epsilon:        tc.Epsilon,
			CheckerCmd:     tc.CheckerCmd,
			Weight:         tc.Weight,
			TimeLimitMs:    tc.TimeLimitMs,
			OutputLimitKiB: tc.OutputLimitKiB,
		}
	}
	if totalWeight <= 0 {
		return nil, fmt.Errorf("test plan weights sum to zero")
	}
	return plan, nil
}
