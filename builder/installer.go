package builder

import (
	"context"
	"errors"
	"fmt"

	"github.com/aptpac/aptpac/aur"
	"github.com/aptpac/aptpac/internal/eventlog"
	"github.com/safedep/dry/log"
)

// ErrAborted is returned when the user declines the transaction. It is a
// clean exit, not a failure.
var ErrAborted = errors.New("transaction aborted by user")

// dependencyResolver is the slice of the resolver API the installer needs.
type dependencyResolver interface {
	Resolve(ctx context.Context, requested []string) (*aur.Resolution, error)
}

// sourceBuilder is the slice of the builder API the installer needs.
type sourceBuilder interface {
	Build(ctx context.Context, meta *aur.PackageMetadata) ([]string, error)
}

// InstallerInteraction decouples the install flow from the terminal UI.
// Nil fields are skipped, which keeps tests and scripted runs headless.
type InstallerInteraction struct {
	// SetStatus reports a long-running phase to the user.
	SetStatus func(status string)

	// ClearStatus removes the current status display.
	ClearStatus func()

	// ShowSummary presents the transaction (build queue, official deps)
	// before asking for confirmation.
	ShowSummary func(res *aur.Resolution, explicit []string)

	// Confirm asks the user to approve the transaction.
	Confirm func() bool
}

type InstallerConfig struct {
	// PacmanBinary is the pacman executable used for installs.
	PacmanBinary string

	// AutoConfirm skips the interactive prompt and passes --noconfirm to
	// pacman where a prompt would otherwise appear.
	AutoConfirm bool

	// DryRun resolves and reports but executes nothing.
	DryRun bool
}

func DefaultInstallerConfig() InstallerConfig {
	return InstallerConfig{
		PacmanBinary: "pacman",
	}
}

// Installer drives a full AUR install transaction: resolve, confirm, install
// official dependencies, then build the queue in order, installing each entry
// either immediately (when a later build needs it) or in one final batch.
type Installer struct {
	config      InstallerConfig
	resolver    dependencyResolver
	builder     sourceBuilder
	runner      CommandRunner
	interaction InstallerInteraction
}

func NewInstaller(config InstallerConfig, resolver dependencyResolver, builder sourceBuilder,
	runner CommandRunner, interaction InstallerInteraction) (*Installer, error) {
	if config.PacmanBinary == "" {
		config.PacmanBinary = "pacman"
	}

	return &Installer{
		config:      config,
		resolver:    resolver,
		builder:     builder,
		runner:      runner,
		interaction: interaction,
	}, nil
}

func (i *Installer) Install(ctx context.Context, requested []string) error {
	i.setStatus("Resolving AUR dependencies")
	res, err := i.resolver.Resolve(ctx, requested)
	i.clearStatus()

	if err != nil {
		eventlog.Record(eventlog.Event{
			Type:    eventlog.EventResolveFailed,
			Message: err.Error(),
		})
		return err
	}

	eventlog.Record(eventlog.Event{
		Type:    eventlog.EventResolveCompleted,
		Message: fmt.Sprintf("%d build units, %d official dependencies", len(res.BuildQueue), len(res.OfficialDeps)),
	})

	if len(res.BuildQueue) == 0 {
		log.Infof("nothing to build")
		return nil
	}

	if i.interaction.ShowSummary != nil {
		i.interaction.ShowSummary(res, requested)
	}

	if !i.config.AutoConfirm && i.interaction.Confirm != nil && !i.interaction.Confirm() {
		return ErrAborted
	}

	if i.config.DryRun {
		log.Infof("dry run: skipping build and install of %d package(s)", len(res.BuildQueue))
		return nil
	}

	if err := i.installOfficialDeps(ctx, res.OfficialDeps); err != nil {
		return err
	}

	return i.buildQueue(ctx, res.BuildQueue)
}

// installOfficialDeps installs repository dependencies in a single batch
// before any build starts. --needed skips up-to-date packages, --asdeps
// records them as dependencies so they are orphaned correctly on removal.
func (i *Installer) installOfficialDeps(ctx context.Context, deps []string) error {
	if len(deps) == 0 {
		return nil
	}

	args := []string{"-S", "--needed", "--asdeps"}
	if i.config.AutoConfirm {
		args = append(args, "--noconfirm")
	}
	args = append(args, deps...)

	if err := i.runner.Run(ctx, "", i.config.PacmanBinary, args...); err != nil {
		return fmt.Errorf("failed to install official dependencies: %w", err)
	}

	return nil
}

// buildQueue builds every queue entry in resolution order. Entries required
// by a later build are installed the moment they are built; the rest are
// accumulated and installed together at the end. A build failure aborts the
// remaining queue since downstream entries may depend on the failed one.
func (i *Installer) buildQueue(ctx context.Context, queue []*aur.PackageMetadata) error {
	immediate, _ := aur.Partition(queue)

	requiredBy := make(map[string]string, len(immediate))
	for _, entry := range immediate {
		requiredBy[entry.Metadata.Name] = entry.RequiredBy
	}

	var batch []string
	var batchNames []string

	for _, meta := range queue {
		eventlog.Record(eventlog.Event{
			Type:    eventlog.EventBuildStarted,
			Package: meta.Base(),
			Version: meta.Version,
		})

		artifacts, err := i.builder.Build(ctx, meta)
		if err != nil {
			eventlog.Record(eventlog.Event{
				Type:    eventlog.EventBuildFailed,
				Package: meta.Base(),
				Message: err.Error(),
			})
			return err
		}

		if by, ok := requiredBy[meta.Name]; ok {
			log.Debugf("installing %s immediately: required by %s", meta.Name, by)

			args := append([]string{"-U", "--noconfirm", "--asdeps"}, artifacts...)
			if err := i.runner.Run(ctx, "", i.config.PacmanBinary, args...); err != nil {
				return fmt.Errorf("failed to install dependency %s: %w", meta.Name, err)
			}

			eventlog.Record(eventlog.Event{
				Type:    eventlog.EventInstallCompleted,
				Package: meta.Name,
				Version: meta.Version,
				Message: fmt.Sprintf("installed as dependency of %s", by),
			})

			continue
		}

		batch = append(batch, artifacts...)
		batchNames = append(batchNames, meta.Name)
	}

	if len(batch) == 0 {
		return nil
	}

	// The user already confirmed the transaction up front, apt style, so
	// the final install never prompts again.
	args := append([]string{"-U", "--noconfirm"}, batch...)
	if err := i.runner.Run(ctx, "", i.config.PacmanBinary, args...); err != nil {
		return fmt.Errorf("failed to install built packages: %w", err)
	}

	for _, name := range batchNames {
		eventlog.Record(eventlog.Event{
			Type:    eventlog.EventInstallCompleted,
			Package: name,
		})
	}

	return nil
}

func (i *Installer) setStatus(status string) {
	if i.interaction.SetStatus != nil {
		i.interaction.SetStatus(status)
	}
}

func (i *Installer) clearStatus() {
	if i.interaction.ClearStatus != nil {
		i.interaction.ClearStatus()
	}
}
