package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aptpac/aptpac/aur"
	"github.com/safedep/dry/log"
)

const defaultSourceBaseURL = "https://aur.archlinux.org"

type BuildConfig struct {
	// BuildDir is the root directory package sources are cloned into, one
	// subdirectory per package base.
	BuildDir string

	// SourceBaseURL is the git host serving <base>.git repositories.
	SourceBaseURL string

	// Verbose streams git and makepkg output instead of capturing it.
	Verbose bool

	// BuildUser is the user makepkg runs as when apt-pac runs as root.
	// makepkg refuses to build as root, so this must be set in that case.
	BuildUser string

	// PrivilegeTool wraps the makepkg invocation when dropping to BuildUser.
	PrivilegeTool PrivilegeTool
}

func DefaultBuildConfig(buildDir string) BuildConfig {
	return BuildConfig{
		BuildDir:      buildDir,
		SourceBaseURL: defaultSourceBaseURL,
		PrivilegeTool: PrivilegeToolAuto,
	}
}

// Builder fetches AUR package sources and builds them with makepkg.
type Builder struct {
	config BuildConfig
	runner CommandRunner

	// geteuid is stubbed in tests.
	geteuid func() int
}

func NewBuilder(config BuildConfig, runner CommandRunner) (*Builder, error) {
	if config.BuildDir == "" {
		return nil, fmt.Errorf("build directory must not be empty")
	}

	if config.SourceBaseURL == "" {
		config.SourceBaseURL = defaultSourceBaseURL
	}

	return &Builder{
		config:  config,
		runner:  runner,
		geteuid: os.Geteuid,
	}, nil
}

// FetchSource clones the package base's git repository into the build
// directory, or fast-forwards an existing checkout. A checkout that is not a
// git repository, or one whose pull fails, is discarded and cloned fresh.
func (b *Builder) FetchSource(ctx context.Context, base string) (string, error) {
	dir := filepath.Join(b.config.BuildDir, base)
	cloneURL := fmt.Sprintf("%s/%s.git", b.config.SourceBaseURL, base)

	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		if err := b.git(ctx, dir, "pull"); err == nil {
			return dir, nil
		}

		log.Warnf("pull failed for %s, re-cloning", base)
	}

	if _, err := os.Stat(dir); err == nil {
		if err := os.RemoveAll(dir); err != nil {
			return "", fmt.Errorf("failed to remove stale checkout for %s: %w", base, err)
		}
	}

	if err := os.MkdirAll(b.config.BuildDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create build directory: %w", err)
	}

	if err := b.git(ctx, "", "clone", cloneURL, dir); err != nil {
		return "", fmt.Errorf("failed to clone %s: %w", base, err)
	}

	return dir, nil
}

func (b *Builder) git(ctx context.Context, dir string, args ...string) error {
	if b.config.Verbose {
		return b.runner.Run(ctx, dir, "git", args...)
	}

	return b.runner.RunQuiet(ctx, dir, "git", args...)
}

// Build fetches the source for the package's base and runs makepkg. It
// returns the paths of the built package artifacts belonging to the package,
// with debug split packages filtered out.
//
// makepkg runs without -s on purpose: dependencies are installed up front by
// the installer, in resolution order, so syncdeps would only hide ordering
// bugs.
func (b *Builder) Build(ctx context.Context, meta *aur.PackageMetadata) ([]string, error) {
	base := meta.Base()

	dir, err := b.FetchSource(ctx, base)
	if err != nil {
		return nil, err
	}

	// Stale artifacts from a previous build would be indistinguishable from
	// this build's output.
	stale, _ := filepath.Glob(filepath.Join(dir, "*.pkg.tar.*"))
	for _, path := range stale {
		if err := os.Remove(path); err != nil {
			log.Debugf("failed to remove stale artifact %s: %v", path, err)
		}
	}

	makepkg := []string{"makepkg", "-f", "--needed", "--noconfirm"}

	cmd := makepkg
	runDir := dir

	if b.geteuid() == 0 {
		if b.config.BuildUser == "" {
			return nil, fmt.Errorf("cannot build %s as root: no build user configured", base)
		}

		tool := ResolvePrivilegeTool(b.config.PrivilegeTool)
		shellCmd := fmt.Sprintf("cd %s && %s", dir, strings.Join(makepkg, " "))
		cmd = PrivilegeCommand(tool, b.config.BuildUser, []string{"sh", "-c", shellCmd})
		runDir = ""
	}

	log.Infof("building %s", base)

	if err := b.runner.Run(ctx, runDir, cmd[0], cmd[1:]...); err != nil {
		return nil, fmt.Errorf("makepkg failed for %s: %w", base, err)
	}

	artifacts, err := filepath.Glob(filepath.Join(dir, "*.pkg.tar.*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list build artifacts for %s: %w", base, err)
	}

	artifacts = filterArtifacts(artifacts, meta.Name)
	if len(artifacts) == 0 {
		return nil, fmt.Errorf("build of %s produced no package artifacts", base)
	}

	return artifacts, nil
}

// filterArtifacts drops debug split packages unless the requested package is
// itself a debug package.
func filterArtifacts(paths []string, name string) []string {
	var kept []string

	for _, path := range paths {
		if strings.Contains(filepath.Base(path), "-debug") && !strings.HasSuffix(name, "-debug") {
			continue
		}

		kept = append(kept, path)
	}

	return kept
}
