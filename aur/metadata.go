// Package aur implements dependency resolution and build ordering for
// packages that must be built from the Arch User Repository.
package aur

import (
	"context"
	"strings"
)

// PackageMetadata is the per-package record returned by the AUR RPC info
// endpoint. Field tags follow the RPC v5 response keys.
type PackageMetadata struct {
	Name        string `json:"Name"`
	Version     string `json:"Version"`
	Description string `json:"Description,omitempty"`

	// PackageBase is the source unit this binary package is built from. It
	// differs from Name only for split packages.
	PackageBase string `json:"PackageBase,omitempty"`

	Depends      []string `json:"Depends,omitempty"`
	MakeDepends  []string `json:"MakeDepends,omitempty"`
	CheckDepends []string `json:"CheckDepends,omitempty"`
}

// Base returns the package base, falling back to the package name when the
// RPC response omits it.
func (m *PackageMetadata) Base() string {
	if m.PackageBase != "" {
		return m.PackageBase
	}

	return m.Name
}

// AllDependencies returns the union of runtime, make and check dependencies
// with version constraints stripped. Order follows the declaration order of
// the underlying lists; duplicates are kept and deduplicated by the caller's
// visited bookkeeping.
func (m *PackageMetadata) AllDependencies() []string {
	deps := make([]string, 0, len(m.Depends)+len(m.MakeDepends)+len(m.CheckDepends))

	for _, list := range [][]string{m.Depends, m.MakeDepends, m.CheckDepends} {
		for _, spec := range list {
			deps = append(deps, StripConstraint(spec))
		}
	}

	return deps
}

// StripConstraint reduces a dependency specifier such as "foo>=1.2.3" to the
// bare package name. Everything from the first version operator on is
// discarded; a specifier without an operator is returned trimmed.
func StripConstraint(spec string) string {
	if idx := strings.IndexAny(spec, "<>="); idx >= 0 {
		spec = spec[:idx]
	}

	return strings.TrimSpace(spec)
}

// MetadataSource answers the three questions the resolver asks about a
// package name. Implementations are expected to apply their own timeouts;
// the resolver treats a fetch failure as fatal for the whole resolution.
type MetadataSource interface {
	// IsInstalled reports whether the package is installed locally.
	IsInstalled(ctx context.Context, name string) bool

	// InOfficialRepos reports whether the package can be installed from a
	// binary repository instead of being built.
	InOfficialRepos(ctx context.Context, name string) bool

	// FetchMetadata performs a batched AUR lookup. Unknown names yield no
	// record rather than an error; callers detect absence by matching the
	// returned names against the request.
	FetchMetadata(ctx context.Context, names []string) ([]*PackageMetadata, error)
}
