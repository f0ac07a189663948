package aur

import (
	"context"

	"github.com/aptpac/aptpac/alpm"
)

// systemMetadataSource answers resolver queries from the real system: the
// local and sync pacman databases for installed/official checks and the AUR
// RPC endpoint for metadata.
type systemMetadataSource struct {
	rpc    *RPCClient
	pacman *alpm.Pacman
}

var _ MetadataSource = (*systemMetadataSource)(nil)

// NewSystemMetadataSource combines pacman database lookups with the AUR RPC
// client into the MetadataSource the resolver consumes.
func NewSystemMetadataSource(rpc *RPCClient, pacman *alpm.Pacman) MetadataSource {
	return &systemMetadataSource{
		rpc:    rpc,
		pacman: pacman,
	}
}

func (s *systemMetadataSource) IsInstalled(ctx context.Context, name string) bool {
	return s.pacman.IsInstalled(ctx, name)
}

func (s *systemMetadataSource) InOfficialRepos(ctx context.Context, name string) bool {
	return s.pacman.InOfficialRepos(ctx, name)
}

func (s *systemMetadataSource) FetchMetadata(ctx context.Context, names []string) ([]*PackageMetadata, error) {
	return s.rpc.Info(ctx, names)
}
