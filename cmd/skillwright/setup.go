package main

import (
	"context"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/skillwright/skillwright/pkg/config"
	"github.com/skillwright/skillwright/pkg/logger"
	"github.com/skillwright/skillwright/pkg/matrix"
	"github.com/skillwright/skillwright/pkg/presenter"
	"github.com/skillwright/skillwright/pkg/skills"
)

// Process exit codes. Configuration errors are fatal before any wizard step
// runs; an invalid selection is recoverable inside the wizard but maps to
// its own code when surfaced at process level.
const (
	exitOK          = 0
	exitInvalid     = 1
	exitConfigError = 2
	exitCancelled   = 130
)

// buildMatrix loads settings, discovers skills, parses the relationships
// document, and merges everything into the resolved matrix. Configuration
// errors are reported in aggregate and terminate the process.
func buildMatrix(ctx context.Context) (*matrix.Matrix, *config.Settings) {
	settings, err := config.LoadSettings()
	if err != nil {
		fatalConfig(err)
	}

	discovery, err := skills.NewDiscovery(skills.WithSkillDirs(settings.SkillDirs...))
	if err != nil {
		fatalConfig(err)
	}
	discovered, err := discovery.Discover()
	if err != nil {
		fatalConfig(errors.Wrap(err, "skill discovery failed"))
	}
	logger.G(ctx).WithField("skills", len(discovered)).Debug("discovered skills")

	rel, err := config.LoadRelationships(settings.Relationships)
	if err != nil {
		fatalConfig(err)
	}

	m, err := matrix.Merge(rel, discovered)
	if err != nil {
		fatalConfig(err)
	}
	return m, settings
}

// fatalConfig prints every configuration problem and exits. Aggregated
// merge errors are unpacked so the user sees each one on its own line.
func fatalConfig(err error) {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		presenter.Error(errors.Errorf("%d configuration problem(s)", len(merr.Errors)), "invalid configuration")
		for _, e := range merr.Errors {
			presenter.Error(e, "")
		}
	} else {
		presenter.Error(err, "invalid configuration")
	}
	os.Exit(exitConfigError)
}
