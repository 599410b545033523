package gensrvc

import (
	"context"
	"errors"
	"net/http"

	"github.com/devtutor/backend/fslab"
	"github.com/devtutor/backend/srvcerror"
)

// UnitCtx describes the course unit a lab is generated for.
type UnitCtx struct {
	CourseID string
	UnitID   string
	Topic    string
}

// Gateway produces the artifacts of a new lab: statement, starter
// files and the test plan with its fixtures. The live implementation
// is an external LLM-backed service; the grading core only depends on
// this interface.
type Gateway interface {
	GenerateLab(ctx context.Context, unit UnitCtx, language string, kind string) (fslab.Artifacts, error)
}

const ErrCodeGenerationUnavailable = "generation_unavailable"

func ErrGenerationUnavailable() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeGenerationUnavailable,
		"lab content generation is unavailable",
	).SetHttpStatusCode(http.StatusServiceUnavailable)
}

// CreateLab asks the gateway for artifacts and materializes the lab
// workspace. When generation is unavailable it falls back to the
// static per-language template instead of failing the creation.
func CreateLab(ctx context.Context, root *fslab.Root, gw Gateway, labCtx fslab.LabCtx, kind string, language string) (*fslab.Lab, error) {
	unit := UnitCtx{CourseID: labCtx.CourseID, UnitID: labCtx.UnitID}

	arts, err := gw.GenerateLab(ctx, unit, language, kind)
	if err != nil {
		srvcErr := &srvcerror.Error{}
		if !errors.As(err, &srvcErr) || srvcErr.ErrorCode() != ErrCodeGenerationUnavailable {
			return nil, err
		}
		arts, err = StaticGen{}.GenerateLab(ctx, unit, language, kind)
		if err != nil {
			return nil, err
		}
	}
	return root.CreateLab(labCtx, kind, language, arts)
}
