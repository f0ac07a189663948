package aur

import (
	"context"
	"errors"
	"testing"

	"github.com/aptpac/aptpac/alpm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeForeignLister struct {
	packages []alpm.Package
	err      error
}

func (f *fakeForeignLister) ForeignPackages(context.Context) ([]alpm.Package, error) {
	return f.packages, f.err
}

type fakeInfoFetcher struct {
	metadata map[string]*PackageMetadata
	calls    [][]string
	err      error
}

func (f *fakeInfoFetcher) Info(_ context.Context, names []string) ([]*PackageMetadata, error) {
	f.calls = append(f.calls, names)

	if f.err != nil {
		return nil, f.err
	}

	var results []*PackageMetadata
	for _, name := range names {
		if meta, ok := f.metadata[name]; ok {
			results = append(results, meta)
		}
	}

	return results, nil
}

func TestUpdateCheckerReportsNewerVersions(t *testing.T) {
	installed := &fakeForeignLister{packages: []alpm.Package{
		{Name: "yay", Version: "12.3.5-1"},
		{Name: "paru", Version: "2.0.4-1"},
		{Name: "local-only", Version: "1.0-1"},
	}}

	rpc := &fakeInfoFetcher{metadata: map[string]*PackageMetadata{
		"yay":  {Name: "yay", Version: "12.4.0-1"},
		"paru": {Name: "paru", Version: "2.0.4-1"},
		// local-only is unknown to the AUR and silently skipped
	}}

	updates, err := NewUpdateChecker(DefaultUpdateCheckerConfig(), installed, rpc).Check(context.Background())
	require.NoError(t, err)

	require.Len(t, updates, 1)
	assert.Equal(t, Update{Name: "yay", Current: "12.3.5-1", New: "12.4.0-1"}, updates[0])
}

func TestUpdateCheckerIgnoresDowngrades(t *testing.T) {
	installed := &fakeForeignLister{packages: []alpm.Package{
		{Name: "yay", Version: "13.0.0-1"},
	}}
	rpc := &fakeInfoFetcher{metadata: map[string]*PackageMetadata{
		"yay": {Name: "yay", Version: "12.4.0-1"},
	}}

	updates, err := NewUpdateChecker(DefaultUpdateCheckerConfig(), installed, rpc).Check(context.Background())
	require.NoError(t, err)
	assert.Empty(t, updates)
}

func TestUpdateCheckerChunksRequests(t *testing.T) {
	var packages []alpm.Package
	metadata := make(map[string]*PackageMetadata)
	for i := 0; i < 120; i++ {
		name := string(rune('a'+i%26)) + "-pkg-" + string(rune('0'+i%10))
		// Names collide; use an index suffix that keeps them unique.
		name = name + "-" + string(rune('a'+i/26))
		packages = append(packages, alpm.Package{Name: name, Version: "1.0-1"})
		metadata[name] = &PackageMetadata{Name: name, Version: "1.0-1"}
	}

	installed := &fakeForeignLister{packages: packages}
	rpc := &fakeInfoFetcher{metadata: metadata}

	_, err := NewUpdateChecker(DefaultUpdateCheckerConfig(), installed, rpc).Check(context.Background())
	require.NoError(t, err)

	require.Len(t, rpc.calls, 3)
	assert.Len(t, rpc.calls[0], 50)
	assert.Len(t, rpc.calls[1], 50)
	assert.Len(t, rpc.calls[2], 20)
}

func TestUpdateCheckerNoForeignPackages(t *testing.T) {
	installed := &fakeForeignLister{}
	rpc := &fakeInfoFetcher{}

	updates, err := NewUpdateChecker(DefaultUpdateCheckerConfig(), installed, rpc).Check(context.Background())
	require.NoError(t, err)
	assert.Empty(t, updates)
	assert.Empty(t, rpc.calls)
}

func TestUpdateCheckerPropagatesRPCFailure(t *testing.T) {
	installed := &fakeForeignLister{packages: []alpm.Package{{Name: "yay", Version: "1.0-1"}}}
	rpc := &fakeInfoFetcher{err: errors.New("timeout")}

	_, err := NewUpdateChecker(DefaultUpdateCheckerConfig(), installed, rpc).Check(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "timeout")
}
