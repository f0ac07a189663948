package aur

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRPCClient(t *testing.T, handler http.Handler) *RPCClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewRPCClient(RPCClientConfig{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, nil)
	require.NoError(t, err)

	return client
}

func TestRPCInfo(t *testing.T) {
	client := newTestRPCClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/info", r.URL.Path)
		assert.Equal(t, []string{"yay", "no-such-pkg"}, r.URL.Query()["arg[]"])
		assert.Equal(t, rpcUserAgent, r.Header.Get("User-Agent"))

		// One of the two requested names is unknown and absent from results.
		w.Write([]byte(`{
			"version": 5,
			"type": "multiinfo",
			"resultcount": 1,
			"results": [{
				"Name": "yay",
				"PackageBase": "yay",
				"Version": "12.3.5-1",
				"Depends": ["pacman>6.1", "git"],
				"MakeDepends": ["go"]
			}]
		}`))
	}))

	results, err := client.Info(context.Background(), []string{"yay", "no-such-pkg"})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "yay", results[0].Name)
	assert.Equal(t, "12.3.5-1", results[0].Version)
	assert.Equal(t, []string{"pacman>6.1", "git"}, results[0].Depends)
	assert.Equal(t, []string{"go"}, results[0].MakeDepends)
}

func TestRPCInfoEmptyRequest(t *testing.T) {
	client := newTestRPCClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an empty name list")
	}))

	results, err := client.Info(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRPCInfoServerError(t *testing.T) {
	client := newTestRPCClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.Info(context.Background(), []string{"yay"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "status 502")
}

func TestRPCInfoErrorEnvelope(t *testing.T) {
	client := newTestRPCClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"version": 5, "type": "error", "error": "Too many package names."}`))
	}))

	_, err := client.Info(context.Background(), []string{"yay"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "Too many package names")
}

func TestRPCSearch(t *testing.T) {
	client := newTestRPCClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/firefox", r.URL.Path)

		w.Write([]byte(`{
			"version": 5,
			"type": "search",
			"resultcount": 2,
			"results": [
				{"Name": "firefox-nightly", "Version": "143.0-1", "Description": "Nightly build"},
				{"Name": "firefox-esr", "Version": "140.2.0-1", "Description": "ESR build"}
			]
		}`))
	}))

	results, err := client.Search(context.Background(), "firefox")
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "firefox-nightly", results[0].Name)
	assert.Equal(t, "Nightly build", results[0].Description)
}

func TestRPCInfoUsesCache(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{"version": 5, "type": "multiinfo", "resultcount": 1,
			"results": [{"Name": "yay", "Version": "12.3.5-1"}]}`))
	}))
	t.Cleanup(server.Close)

	cache := newMemoryCache()
	client, err := NewRPCClient(RPCClientConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, cache)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		results, err := client.Info(context.Background(), []string{"yay"})
		require.NoError(t, err)
		require.Len(t, results, 1)
	}

	assert.Equal(t, 1, requests)
}

func TestInfoCacheKeyIsOrderInsensitive(t *testing.T) {
	assert.Equal(t, infoCacheKey([]string{"b", "a"}), infoCacheKey([]string{"a", "b"}))
	assert.NotEqual(t, infoCacheKey([]string{"a"}), infoCacheKey([]string{"a", "b"}))
}

type memoryCache struct {
	entries map[string][]*PackageMetadata
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]*PackageMetadata)}
}

func (m *memoryCache) Get(key string) ([]*PackageMetadata, bool) {
	data, ok := m.entries[key]
	return data, ok
}

func (m *memoryCache) Put(key string, data []*PackageMetadata) {
	m.entries[key] = data
}
