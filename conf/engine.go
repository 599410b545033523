package conf

import (
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Engine holds the grading engine configuration. Values come from the
// environment; cmd binaries load .env via godotenv before calling this.
type Engine struct {
	RootDir string // directory holding labs/ and progress/

	Workers           int     // max simultaneous test-case processes
	DefaultThreshold  float64 // pass threshold when lab.toml omits one
	DefaultTimeLimMs  int     // test-case wall-clock limit fallback
	DefaultOutputKiB  int     // captured stdout/stderr cap fallback
	EnvAllowList      []string
	HttpListenAddress string
}

func GetEngineFromEnv() Engine {
	e := Engine{
		RootDir:           os.Getenv("LAB_ROOT_DIR"),
		Workers:           runtime.NumCPU(),
		DefaultThreshold:  0.6,
		DefaultTimeLimMs:  10 * 1000,
		DefaultOutputKiB:  64,
		EnvAllowList:      []string{"PATH", "HOME", "LANG", "LC_ALL"},
		HttpListenAddress: ":8080",
	}
	if e.RootDir == "" {
		e.RootDir = "."
	}
	if v := os.Getenv("GRADER_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			e.Workers = n
		}
	}
	if v := os.Getenv("GRADER_PASS_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f <= 1 {
			e.DefaultThreshold = f
		}
	}
	if v := os.Getenv("GRADER_TIME_LIMIT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			e.DefaultTimeLimMs = n
		}
	}
	if v := os.Getenv("GRADER_OUTPUT_LIMIT_KIB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			e.DefaultOutputKiB = n
		}
	}
	if v := os.Getenv("GRADER_ENV_ALLOWLIST"); v != "" {
		parts := strings.Split(v, ",")
		allow := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				allow = append(allow, p)
			}
		}
		if len(allow) > 0 {
			e.EnvAllowList = allow
		}
	}
	if v := os.Getenv("HTTP_LISTEN_ADDRESS"); v != "" {
		e.HttpListenAddress = v
	}
	return e
}
