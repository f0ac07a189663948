package aur

import (
	"context"
	"sort"

	"github.com/safedep/dry/log"
)

// Resolution is the outcome of one Resolve call.
type Resolution struct {
	// BuildQueue lists one representative metadata record per package base,
	// ordered so that every entry appears after all of its AUR dependencies.
	BuildQueue []*PackageMetadata

	// OfficialDeps are dependency names satisfiable from the binary
	// repositories. They never enter the build queue; the caller installs
	// them with the system package manager before building.
	OfficialDeps []string

	// PackageBases maps each package base in the queue to the binary package
	// names observed for it. A base with more than one name is a split
	// package and still occupies a single queue slot.
	PackageBases map[string][]string
}

// Resolver walks the transitive AUR dependency graph of a set of requested
// packages and produces a dependency-safe build order. A Resolver is
// stateless across calls; all traversal state lives in a per-call
// resolutionState, so independent resolutions may run concurrently on
// separate goroutines.
type Resolver struct {
	source MetadataSource
}

func NewResolver(source MetadataSource) *Resolver {
	return &Resolver{source: source}
}

// resolutionState is the working set of a single Resolve call.
type resolutionState struct {
	// visiting holds names currently on the DFS stack (gray nodes). A name
	// re-encountered while in this set closes a cycle.
	visiting map[string]struct{}

	// visited holds fully processed names (black nodes), including names
	// settled as installed or official that never reach the queue.
	visited map[string]struct{}

	// metadata caches fetched records so a name is looked up at most once
	// per resolution.
	metadata map[string]*PackageMetadata

	// bases tracks the binary package names observed per package base.
	bases map[string]map[string]struct{}

	// baseMeta holds the first metadata record seen for each base; it
	// represents the whole base in the queue.
	baseMeta map[string]*PackageMetadata

	official    map[string]struct{}
	queue       []*PackageMetadata
	queuedBases map[string]struct{}
}

func newResolutionState() *resolutionState {
	return &resolutionState{
		visiting:    make(map[string]struct{}),
		visited:     make(map[string]struct{}),
		metadata:    make(map[string]*PackageMetadata),
		bases:       make(map[string]map[string]struct{}),
		baseMeta:    make(map[string]*PackageMetadata),
		official:    make(map[string]struct{}),
		queuedBases: make(map[string]struct{}),
	}
}

// Resolve classifies every transitive dependency of the requested packages
// and returns the AUR build queue in topological order together with the
// official repository dependencies collected along the way.
//
// Requested packages are always visited, even when already installed, because
// the user explicitly asked to (re)build them. Any cycle or unresolvable name
// aborts the whole resolution; a partial queue cannot be ordered soundly.
func (r *Resolver) Resolve(ctx context.Context, requested []string) (*Resolution, error) {
	st := newResolutionState()

	for _, name := range requested {
		if err := r.visit(ctx, st, name, true, nil); err != nil {
			return nil, err
		}
	}

	official := make([]string, 0, len(st.official))
	for name := range st.official {
		official = append(official, name)
	}
	sort.Strings(official)

	packageBases := make(map[string][]string, len(st.bases))
	for base, names := range st.bases {
		members := make([]string, 0, len(names))
		for name := range names {
			members = append(members, name)
		}
		sort.Strings(members)
		packageBases[base] = members
	}

	log.Debugf("resolved %d requested packages into %d build units and %d official dependencies",
		len(requested), len(st.queue), len(official))

	return &Resolution{
		BuildQueue:   st.queue,
		OfficialDeps: official,
		PackageBases: packageBases,
	}, nil
}

func (r *Resolver) visit(ctx context.Context, st *resolutionState, name string, forced bool, path []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, ok := st.visiting[name]; ok {
		cycle := make([]string, 0, len(path)+1)
		cycle = append(cycle, path...)
		cycle = append(cycle, name)
		return &CyclicDependencyError{Cycle: cycle}
	}

	if _, ok := st.visited[name]; ok {
		return nil
	}

	// Installed dependencies are trusted as-is. Only explicit top-level
	// targets bypass this shortcut.
	if !forced && r.source.IsInstalled(ctx, name) {
		st.visited[name] = struct{}{}
		return nil
	}

	// Official packages are delegated to pacman and never enter the build
	// graph.
	if r.source.InOfficialRepos(ctx, name) {
		st.official[name] = struct{}{}
		st.visited[name] = struct{}{}
		return nil
	}

	meta, ok := st.metadata[name]
	if !ok {
		results, err := r.source.FetchMetadata(ctx, []string{name})
		if err != nil {
			return metadataFetchError(name, err)
		}

		if len(results) == 0 {
			return packageNotFoundError(name)
		}

		meta = results[0]
		st.metadata[name] = meta
	}

	base := meta.Base()
	if _, ok := st.bases[base]; !ok {
		st.bases[base] = make(map[string]struct{})
		st.baseMeta[base] = meta
	}
	st.bases[base][name] = struct{}{}

	st.visiting[name] = struct{}{}

	// path is copied, not shared, so cycle reports cannot be corrupted by
	// sibling recursion.
	childPath := make([]string, 0, len(path)+1)
	childPath = append(childPath, path...)
	childPath = append(childPath, name)

	for _, dep := range meta.AllDependencies() {
		if err := r.visit(ctx, st, dep, false, childPath); err != nil {
			return err
		}
	}

	delete(st.visiting, name)
	st.visited[name] = struct{}{}

	// One queue slot per base: the first member of a split package to finish
	// claims it, later members share it.
	if _, ok := st.queuedBases[base]; !ok {
		st.queuedBases[base] = struct{}{}
		st.queue = append(st.queue, st.baseMeta[base])
	}

	return nil
}
