package gradesrvc

import (
	"github.com/devtutor/backend/conf"
	"github.com/devtutor/backend/fslab"
	"github.com/devtutor/backend/progress"
)

// GradeSrvc turns a submitted lab workspace into a GradeResult and
// advances the progress state machine. Grading-level failures (build
// errors, missing toolchains, timeouts) are captured into the result;
// only structural workspace problems surface as Submit errors.
type GradeSrvc struct {
	root     *fslab.Root
	progress *progress.Store
	cfg      conf.Engine
}

func New(root *fslab.Root, progressStore *progress.Store, cfg conf.Engine) *GradeSrvc {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &GradeSrvc{
		root:     root,
		progress: progressStore,
		cfg:      cfg,
	}
}

func (s *GradeSrvc) Root() *fslab.Root { return s.root }

func (s *GradeSrvc) Progress() *progress.Store { return s.progress }
