package aur

import (
	"context"
	"fmt"

	"github.com/aptpac/aptpac/alpm"
	"github.com/safedep/dry/log"
)

// Update describes an installed AUR package whose AUR version is newer than
// the locally installed one.
type Update struct {
	Name    string
	Current string
	New     string
}

// foreignLister is the slice of the pacman API the update checker needs.
type foreignLister interface {
	ForeignPackages(ctx context.Context) ([]alpm.Package, error)
}

// infoFetcher is the slice of the RPC client the update checker needs.
type infoFetcher interface {
	Info(ctx context.Context, names []string) ([]*PackageMetadata, error)
}

type UpdateCheckerConfig struct {
	// ChunkSize caps the number of names per RPC info request to stay well
	// below the endpoint's URI length limit.
	ChunkSize int
}

func DefaultUpdateCheckerConfig() UpdateCheckerConfig {
	return UpdateCheckerConfig{
		ChunkSize: 50,
	}
}

// UpdateChecker finds installed foreign packages with a newer version in the
// AUR.
type UpdateChecker struct {
	config    UpdateCheckerConfig
	installed foreignLister
	rpc       infoFetcher
}

func NewUpdateChecker(config UpdateCheckerConfig, installed foreignLister, rpc infoFetcher) *UpdateChecker {
	return &UpdateChecker{
		config:    config,
		installed: installed,
		rpc:       rpc,
	}
}

// Check returns the pending AUR updates. Packages unknown to the AUR (for
// example manually installed ones) are skipped, not reported as errors.
func (u *UpdateChecker) Check(ctx context.Context) ([]Update, error) {
	foreign, err := u.installed.ForeignPackages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list foreign packages: %w", err)
	}

	if len(foreign) == 0 {
		return nil, nil
	}

	log.Debugf("checking %d foreign packages for AUR updates", len(foreign))

	installedVersions := make(map[string]string, len(foreign))
	names := make([]string, 0, len(foreign))
	for _, pkg := range foreign {
		installedVersions[pkg.Name] = pkg.Version
		names = append(names, pkg.Name)
	}

	var updates []Update

	for start := 0; start < len(names); start += u.config.ChunkSize {
		end := start + u.config.ChunkSize
		if end > len(names) {
			end = len(names)
		}

		results, err := u.rpc.Info(ctx, names[start:end])
		if err != nil {
			return nil, fmt.Errorf("failed to fetch AUR info: %w", err)
		}

		for _, meta := range results {
			current, ok := installedVersions[meta.Name]
			if !ok {
				continue
			}

			if alpm.VerCmp(current, meta.Version) < 0 {
				updates = append(updates, Update{
					Name:    meta.Name,
					Current: current,
					New:     meta.Version,
				})
			}
		}
	}

	return updates, nil
}
