package aur

import (
	"context"
	"errors"
	"testing"

	"github.com/aptpac/aptpac/clierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is an in-memory MetadataSource for resolver tests.
type fakeSource struct {
	installed  map[string]bool
	official   map[string]bool
	packages   map[string]*PackageMetadata
	fetchCalls [][]string
	fetchErr   error
}

func newFakeSource(packages ...*PackageMetadata) *fakeSource {
	s := &fakeSource{
		installed: make(map[string]bool),
		official:  make(map[string]bool),
		packages:  make(map[string]*PackageMetadata),
	}

	for _, pkg := range packages {
		s.packages[pkg.Name] = pkg
	}

	return s
}

func (s *fakeSource) IsInstalled(_ context.Context, name string) bool {
	return s.installed[name]
}

func (s *fakeSource) InOfficialRepos(_ context.Context, name string) bool {
	return s.official[name]
}

func (s *fakeSource) FetchMetadata(_ context.Context, names []string) ([]*PackageMetadata, error) {
	s.fetchCalls = append(s.fetchCalls, names)

	if s.fetchErr != nil {
		return nil, s.fetchErr
	}

	var results []*PackageMetadata
	for _, name := range names {
		if pkg, ok := s.packages[name]; ok {
			results = append(results, pkg)
		}
	}

	return results, nil
}

func queueNames(queue []*PackageMetadata) []string {
	names := make([]string, 0, len(queue))
	for _, meta := range queue {
		names = append(names, meta.Name)
	}
	return names
}

func TestResolveDiamondDependency(t *testing.T) {
	source := newFakeSource(
		&PackageMetadata{Name: "pkg-a", Version: "1.0", Depends: []string{"pkg-b", "pkg-c"}},
		&PackageMetadata{Name: "pkg-b", Version: "1.0", Depends: []string{"pkg-d"}},
		&PackageMetadata{Name: "pkg-c", Version: "1.0", Depends: []string{"pkg-d"}},
		&PackageMetadata{Name: "pkg-d", Version: "1.0"},
	)

	res, err := NewResolver(source).Resolve(context.Background(), []string{"pkg-a"})
	require.NoError(t, err)

	// D is shared by B and C but appears exactly once, before both.
	assert.Equal(t, []string{"pkg-d", "pkg-b", "pkg-c", "pkg-a"}, queueNames(res.BuildQueue))
}

func TestResolveSimpleCycle(t *testing.T) {
	source := newFakeSource(
		&PackageMetadata{Name: "pkg-a", Version: "1.0", Depends: []string{"pkg-b"}},
		&PackageMetadata{Name: "pkg-b", Version: "1.0", Depends: []string{"pkg-a"}},
	)

	_, err := NewResolver(source).Resolve(context.Background(), []string{"pkg-a"})
	require.Error(t, err)

	var cycleErr *CyclicDependencyError
	require.True(t, errors.As(err, &cycleErr))
	assert.Contains(t, cycleErr.Cycle, "pkg-a")
	assert.Contains(t, cycleErr.Cycle, "pkg-b")
	assert.Equal(t, []string{"pkg-a", "pkg-b", "pkg-a"}, cycleErr.Cycle)
}

func TestResolveLongerCycle(t *testing.T) {
	source := newFakeSource(
		&PackageMetadata{Name: "pkg-a", Version: "1.0", Depends: []string{"pkg-b"}},
		&PackageMetadata{Name: "pkg-b", Version: "1.0", Depends: []string{"pkg-c"}},
		&PackageMetadata{Name: "pkg-c", Version: "1.0", Depends: []string{"pkg-a"}},
	)

	_, err := NewResolver(source).Resolve(context.Background(), []string{"pkg-a"})
	require.Error(t, err)

	var cycleErr *CyclicDependencyError
	require.True(t, errors.As(err, &cycleErr))
	assert.Equal(t, []string{"pkg-a", "pkg-b", "pkg-c", "pkg-a"}, cycleErr.Cycle)
}

func TestResolveSplitPackageSingleBuildUnit(t *testing.T) {
	source := newFakeSource(
		&PackageMetadata{Name: "linux", Version: "6.0", PackageBase: "linux"},
		&PackageMetadata{Name: "linux-headers", Version: "6.0", PackageBase: "linux"},
	)

	res, err := NewResolver(source).Resolve(context.Background(), []string{"linux", "linux-headers"})
	require.NoError(t, err)

	require.Len(t, res.BuildQueue, 1)
	assert.Equal(t, "linux", res.BuildQueue[0].Base())
	assert.Equal(t, []string{"linux", "linux-headers"}, res.PackageBases["linux"])
}

func TestResolveSplitPackageDependency(t *testing.T) {
	source := newFakeSource(
		&PackageMetadata{Name: "my-app", Version: "1.0", Depends: []string{"linux-headers"}},
		&PackageMetadata{Name: "linux-headers", Version: "6.0", PackageBase: "linux"},
	)

	res, err := NewResolver(source).Resolve(context.Background(), []string{"my-app"})
	require.NoError(t, err)

	require.Equal(t, []string{"linux-headers", "my-app"}, queueNames(res.BuildQueue))
	assert.Equal(t, "linux", res.BuildQueue[0].Base())
	assert.Contains(t, res.PackageBases["linux"], "linux-headers")
}

func TestResolveInstalledShortCircuit(t *testing.T) {
	source := newFakeSource(
		&PackageMetadata{Name: "pkg-a", Version: "1.0", Depends: []string{"already-there"}},
	)
	source.installed["already-there"] = true

	res, err := NewResolver(source).Resolve(context.Background(), []string{"pkg-a"})
	require.NoError(t, err)

	assert.Equal(t, []string{"pkg-a"}, queueNames(res.BuildQueue))
	assert.Empty(t, res.OfficialDeps)

	// The installed dependency must never trigger a metadata fetch.
	for _, call := range source.fetchCalls {
		assert.NotContains(t, call, "already-there")
	}
}

func TestResolveForcedVisitOfInstalledTarget(t *testing.T) {
	source := newFakeSource(
		&PackageMetadata{Name: "pkg-a", Version: "1.0"},
	)
	source.installed["pkg-a"] = true

	res, err := NewResolver(source).Resolve(context.Background(), []string{"pkg-a"})
	require.NoError(t, err)

	// Explicitly requested packages are rebuilt even when installed.
	assert.Equal(t, []string{"pkg-a"}, queueNames(res.BuildQueue))
}

func TestResolveOfficialDependency(t *testing.T) {
	source := newFakeSource(
		&PackageMetadata{Name: "pkg-a", Version: "1.0", Depends: []string{"glibc", "pkg-b"}},
		&PackageMetadata{Name: "pkg-b", Version: "1.0"},
	)
	source.official["glibc"] = true

	res, err := NewResolver(source).Resolve(context.Background(), []string{"pkg-a"})
	require.NoError(t, err)

	assert.Equal(t, []string{"pkg-b", "pkg-a"}, queueNames(res.BuildQueue))
	assert.Equal(t, []string{"glibc"}, res.OfficialDeps)

	for _, call := range source.fetchCalls {
		assert.NotContains(t, call, "glibc")
	}
}

func TestResolveStripsVersionConstraints(t *testing.T) {
	source := newFakeSource(
		&PackageMetadata{Name: "pkg-a", Version: "1.0", Depends: []string{"pkg-b>=1.2.3"}},
		&PackageMetadata{Name: "pkg-b", Version: "2.0", MakeDepends: []string{"pkg-c=0.9"}},
		&PackageMetadata{Name: "pkg-c", Version: "0.9"},
	)

	res, err := NewResolver(source).Resolve(context.Background(), []string{"pkg-a"})
	require.NoError(t, err)

	assert.Equal(t, []string{"pkg-c", "pkg-b", "pkg-a"}, queueNames(res.BuildQueue))

	// The constrained specifier and the bare name share one cache entry.
	assert.Equal(t, [][]string{{"pkg-a"}, {"pkg-b"}, {"pkg-c"}}, source.fetchCalls)
}

func TestResolvePackageNotFound(t *testing.T) {
	source := newFakeSource(
		&PackageMetadata{Name: "pkg-a", Version: "1.0", Depends: []string{"no-such-pkg"}},
	)

	_, err := NewResolver(source).Resolve(context.Background(), []string{"pkg-a"})
	require.Error(t, err)
	assert.True(t, clierror.HasCode(err, CodePackageNotFound))
}

func TestResolveMetadataFetchError(t *testing.T) {
	source := newFakeSource()
	source.fetchErr = errors.New("connection reset")

	_, err := NewResolver(source).Resolve(context.Background(), []string{"pkg-a"})
	require.Error(t, err)
	assert.True(t, clierror.HasCode(err, CodeMetadataFetch))
	assert.ErrorContains(t, err, "connection reset")
}

func TestResolveIdempotent(t *testing.T) {
	build := func() *fakeSource {
		return newFakeSource(
			&PackageMetadata{Name: "pkg-a", Version: "1.0", Depends: []string{"pkg-b", "pkg-c"}},
			&PackageMetadata{Name: "pkg-b", Version: "1.0", Depends: []string{"pkg-d"}},
			&PackageMetadata{Name: "pkg-c", Version: "1.0", Depends: []string{"pkg-d"}},
			&PackageMetadata{Name: "pkg-d", Version: "1.0"},
		)
	}

	first, err := NewResolver(build()).Resolve(context.Background(), []string{"pkg-a"})
	require.NoError(t, err)

	second, err := NewResolver(build()).Resolve(context.Background(), []string{"pkg-a"})
	require.NoError(t, err)

	assert.Equal(t, queueNames(first.BuildQueue), queueNames(second.BuildQueue))
	assert.Equal(t, first.OfficialDeps, second.OfficialDeps)
}

func TestResolveIndependentSubtreesKeepRequestOrder(t *testing.T) {
	source := newFakeSource(
		&PackageMetadata{Name: "pkg-z", Version: "1.0"},
		&PackageMetadata{Name: "pkg-a", Version: "1.0"},
	)

	res, err := NewResolver(source).Resolve(context.Background(), []string{"pkg-z", "pkg-a"})
	require.NoError(t, err)

	// No secondary sorting: request order wins for independent subtrees.
	assert.Equal(t, []string{"pkg-z", "pkg-a"}, queueNames(res.BuildQueue))
}

func TestResolveCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := newFakeSource(&PackageMetadata{Name: "pkg-a", Version: "1.0"})

	_, err := NewResolver(source).Resolve(ctx, []string{"pkg-a"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, source.fetchCalls)
}
