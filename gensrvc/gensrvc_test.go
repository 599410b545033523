package gensrvc_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtutor/backend/fslab"
	"github.com/devtutor/backend/gensrvc"
	"github.com/devtutor/backend/planglist"
)

func TestStaticGenCoversEveryLanguageAndKind(t *testing.T) {
	langs, err := planglist.ListProgrammingLanguages()
	require.NoError(t, err)

	kinds := []string{fslab.KindFull, fslab.KindBugfix, fslab.KindFill}
	unit := gensrvc.UnitCtx{CourseID: "c", UnitID: "u"}

	for _, lang := range langs {
		for _, kind := range kinds {
			t.Run(lang.ID+"/"+kind, func(t *testing.T) {
				arts, err := gensrvc.StaticGen{}.GenerateLab(context.Background(), unit, lang.ID, kind)
				require.NoError(t, err)

				assert.NotEmpty(t, arts.Title)
				assert.NotEmpty(t, arts.Statement)
				require.Len(t, arts.StarterFiles, 1)
				assert.Equal(t, lang.MainFilename, arts.StarterFiles[0].RelPath)
				require.NotEmpty(t, arts.TestPlan)
				assert.NotEmpty(t, arts.TestFiles)
			})
		}
	}
}

func TestStaticGenRejectsUnknownLanguage(t *testing.T) {
	_, err := gensrvc.StaticGen{}.GenerateLab(context.Background(),
		gensrvc.UnitCtx{}, "cobol", fslab.KindFull)
	require.Error(t, err)
}

// unavailableGateway simulates the live generator being down.
type unavailableGateway struct{}

func (unavailableGateway) GenerateLab(ctx context.Context, unit gensrvc.UnitCtx, language string, kind string) (fslab.Artifacts, error) {
	return fslab.Artifacts{}, gensrvc.ErrGenerationUnavailable()
}

// brokenGateway fails with a non-availability error.
type brokenGateway struct{}

func (brokenGateway) GenerateLab(ctx context.Context, unit gensrvc.UnitCtx, language string, kind string) (fslab.Artifacts, error) {
	return fslab.Artifacts{}, fmt.Errorf("gateway returned malformed artifacts")
}

func TestCreateLabFallsBackToStaticGen(t *testing.T) {
	root, err := fslab.NewRoot(t.TempDir())
	require.NoError(t, err)

	labCtx := fslab.LabCtx{CourseID: "c", UnitID: "u", LabID: "lab-fb"}
	lab, err := gensrvc.CreateLab(context.Background(), root, unavailableGateway{}, labCtx, fslab.KindFull, "python")
	require.NoError(t, err)
	assert.Equal(t, "Greeting Lab", lab.Title)

	// the fallback lab is fully materialized and readable
	read, err := root.ReadLab("lab-fb")
	require.NoError(t, err)
	assert.Equal(t, "python", read.Language)
	require.Len(t, read.TestPlan, 1)
}

func TestCreateLabPropagatesOtherGatewayErrors(t *testing.T) {
	root, err := fslab.NewRoot(t.TempDir())
	require.NoError(t, err)

	labCtx := fslab.LabCtx{CourseID: "c", UnitID: "u", LabID: "lab-err"}
	_, err = gensrvc.CreateLab(context.Background(), root, brokenGateway{}, labCtx, fslab.KindFull, "python")
	require.Error(t, err)

	_, err = root.ReadLab("lab-err")
	require.Error(t, err)
}
