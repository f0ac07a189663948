// Package alpm answers package database questions by shelling out to pacman.
// It deliberately owns no database of its own: the local and sync databases
// stay pacman's responsibility.
package alpm

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/safedep/dry/log"
)

// Package is an installed package as reported by pacman -Q.
type Package struct {
	Name    string
	Version string
}

type PacmanConfig struct {
	// Binary is the pacman executable to invoke.
	Binary string
}

func DefaultPacmanConfig() PacmanConfig {
	return PacmanConfig{
		Binary: "pacman",
	}
}

// Pacman queries the system package databases through the pacman CLI.
type Pacman struct {
	config PacmanConfig
}

func NewPacman(config PacmanConfig) *Pacman {
	return &Pacman{config: config}
}

// IsInstalled reports whether name is installed locally. Query failures are
// treated as not installed because pacman signals absence by exit code.
func (p *Pacman) IsInstalled(ctx context.Context, name string) bool {
	cmd := exec.CommandContext(ctx, p.config.Binary, "-Qq", "--", name)
	return cmd.Run() == nil
}

// InOfficialRepos reports whether name is satisfiable from a configured sync
// repository.
func (p *Pacman) InOfficialRepos(ctx context.Context, name string) bool {
	cmd := exec.CommandContext(ctx, p.config.Binary, "-Si", "--", name)
	return cmd.Run() == nil
}

// InstalledVersion returns the locally installed version of name.
func (p *Pacman) InstalledVersion(ctx context.Context, name string) (string, bool) {
	out, err := exec.CommandContext(ctx, p.config.Binary, "-Q", "--", name).Output()
	if err != nil {
		return "", false
	}

	fields := strings.Fields(string(out))
	if len(fields) < 2 {
		return "", false
	}

	return fields[1], true
}

// ForeignPackages lists installed packages that do not belong to any sync
// repository. On Arch systems these are the AUR (or manually installed)
// packages.
func (p *Pacman) ForeignPackages(ctx context.Context) ([]Package, error) {
	out, err := exec.CommandContext(ctx, p.config.Binary, "-Qm").Output()
	if err != nil {
		// pacman -Qm exits non-zero when there are no foreign packages
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) == 0 {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to list foreign packages: %w", err)
	}

	return parsePackageList(out), nil
}

// SyncVersions resolves the repository versions of the given package names
// using pacman's print mode. Names that pacman cannot resolve are returned
// with an empty version so callers can still display them.
func (p *Pacman) SyncVersions(ctx context.Context, names []string) map[string]string {
	versions := make(map[string]string, len(names))
	for _, name := range names {
		versions[name] = ""
	}

	if len(names) == 0 {
		return versions
	}

	args := append([]string{"-S", "--print", "--print-format", "%n %v", "--"}, names...)
	out, err := exec.CommandContext(ctx, p.config.Binary, args...).Output()
	if err != nil {
		log.Debugf("pacman print mode failed for %d packages: %v", len(names), err)
		return versions
	}

	for _, pkg := range parsePackageList(out) {
		versions[pkg.Name] = pkg.Version
	}

	return versions
}

func parsePackageList(out []byte) []Package {
	var packages []Package

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		pkg := Package{Name: fields[0]}
		if len(fields) > 1 {
			pkg.Version = fields[1]
		}

		packages = append(packages, pkg)
	}

	return packages
}
