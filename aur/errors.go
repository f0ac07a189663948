package aur

import (
	"fmt"
	"strings"

	"github.com/aptpac/aptpac/clierror"
)

const (
	CodePackageNotFound = "aur_package_not_found"
	CodeMetadataFetch   = "aur_metadata_fetch_failed"
)

// CyclicDependencyError reports a dependency cycle found during resolution.
// Cycle holds the full path from the first occurrence of the repeated package
// back to itself, in visit order.
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " → "))
}

func packageNotFoundError(name string) error {
	return clierror.New().
		WithCode(CodePackageNotFound).
		WithHuman(fmt.Sprintf("Package '%s' was not found in the AUR or the official repositories.", name)).
		WithHint("Check the package name for typos. The package may have been removed from the AUR.").
		Msg(fmt.Sprintf("package not found: %s", name))
}

func metadataFetchError(name string, cause error) error {
	return clierror.New().
		WithCode(CodeMetadataFetch).
		WithHuman(fmt.Sprintf("Failed to fetch AUR metadata for '%s'.", name)).
		WithHint("Check your network connection and try again. The AUR RPC endpoint may be temporarily unavailable.").
		Msg(fmt.Sprintf("metadata fetch failed: %s", name)).
		Wrap(cause)
}
