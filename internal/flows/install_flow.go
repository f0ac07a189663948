package flows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aptpac/aptpac/alpm"
	"github.com/aptpac/aptpac/aur"
	"github.com/aptpac/aptpac/builder"
	"github.com/aptpac/aptpac/config"
	"github.com/aptpac/aptpac/internal/ui"
)

type installFlow struct {
	config *config.RuntimeConfig
	pacman *alpm.Pacman
	rpc    *aur.RPCClient
}

// Install creates the standard install flow: AUR RPC with a file-backed
// response cache, pacman-backed system queries, and the terminal UI wired in.
// Configuration comes from the global runtime config.
func Install(cfg *config.RuntimeConfig) (*installFlow, error) {
	cacheTTL := time.Duration(cfg.Config.AurCacheTtlHours) * time.Hour

	rpcConfig := aur.DefaultRPCClientConfig()
	rpcConfig.BaseURL = cfg.Config.AurRpcBaseUrl

	rpc, err := aur.NewRPCClient(rpcConfig, aur.NewFileResponseCache(cfg.RpcCachePath(), cacheTTL))
	if err != nil {
		return nil, fmt.Errorf("failed to create AUR RPC client: %w", err)
	}

	return &installFlow{
		config: cfg,
		pacman: alpm.NewPacman(alpm.DefaultPacmanConfig()),
		rpc:    rpc,
	}, nil
}

// Run resolves, builds and installs the requested packages with their AUR and
// official dependencies.
func (f *installFlow) Run(ctx context.Context, packages []string) error {
	resolver := aur.NewResolver(aur.NewSystemMetadataSource(f.rpc, f.pacman))
	runner := builder.NewExecRunner()

	buildConfig := builder.DefaultBuildConfig(f.config.BuildDir())
	buildConfig.BuildUser = f.config.Config.BuildUser
	buildConfig.PrivilegeTool = builder.PrivilegeTool(f.config.Config.PrivilegeTool)

	sourceBuilder, err := builder.NewBuilder(buildConfig, runner)
	if err != nil {
		return fmt.Errorf("failed to create builder: %w", err)
	}

	installerConfig := builder.DefaultInstallerConfig()
	installerConfig.AutoConfirm = f.config.AutoConfirm
	installerConfig.DryRun = f.config.DryRun

	interaction := builder.InstallerInteraction{
		SetStatus:   ui.SetStatus,
		ClearStatus: ui.ClearStatus,
		ShowSummary: func(res *aur.Resolution, explicit []string) {
			ui.TransactionSummary(res, explicit, f.pacman.SyncVersions(ctx, res.OfficialDeps))
		},
		Confirm: func() bool {
			return ui.Confirm("Do you want to continue?")
		},
	}

	installer, err := builder.NewInstaller(installerConfig, resolver, sourceBuilder, runner, interaction)
	if err != nil {
		return fmt.Errorf("failed to create installer: %w", err)
	}

	err = installer.Install(ctx, packages)
	if errors.Is(err, builder.ErrAborted) {
		ui.Statusln("Abort.")
		return nil
	}

	return err
}

// CheckUpdates returns the installed foreign packages with a newer AUR
// version.
func (f *installFlow) CheckUpdates(ctx context.Context) ([]aur.Update, error) {
	checkerConfig := aur.DefaultUpdateCheckerConfig()
	if f.config.Config.AurInfoChunkSize > 0 {
		checkerConfig.ChunkSize = f.config.Config.AurInfoChunkSize
	}

	checker := aur.NewUpdateChecker(checkerConfig, f.pacman, f.rpc)
	return checker.Check(ctx)
}

// Search queries the AUR by keyword.
func (f *installFlow) Search(ctx context.Context, query string) ([]*aur.PackageMetadata, error) {
	return f.rpc.Search(ctx, query)
}
