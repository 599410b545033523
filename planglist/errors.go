package planglist

import (
	"fmt"
	"net/http"

	"github.com/devtutor/backend/srvcerror"
)

const ErrCodeInvalidProgLang = "invalid_programming_language"

func ErrInvalidProgLang() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidProgLang,
		"invalid programming language",
	).SetHttpStatusCode(http.StatusBadRequest)
}

// BuildError reports a failed compile step. The diagnostics are the
// capped compiler output, shown to the student as feedback.
type BuildError struct {
	Diagnostics string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build failed: %s", e.Diagnostics)
}

// ToolchainError reports a compiler or interpreter that is not
// installed. It grades to zero instead of crashing the engine.
type ToolchainError struct {
	Language string
	Binary   string
}

func (e *ToolchainError) Error() string {
	return fmt.Sprintf("toolchain for %s not found: %s", e.Language, e.Binary)
}
