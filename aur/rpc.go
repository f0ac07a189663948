package aur

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/safedep/dry/log"
)

const (
	defaultRPCBaseURL = "https://aur.archlinux.org/rpc/v5"
	defaultRPCTimeout = 10 * time.Second

	// Some public endpoints reject requests without an explicit agent.
	rpcUserAgent = "apt-pac"
)

// ResponseCache caches RPC responses keyed by request. A nil cache disables
// caching entirely.
type ResponseCache interface {
	Get(key string) ([]*PackageMetadata, bool)
	Put(key string, data []*PackageMetadata)
}

type RPCClientConfig struct {
	// BaseURL is the AUR RPC v5 endpoint without a trailing slash.
	BaseURL string

	// Timeout bounds every RPC round trip. A timed out request surfaces as
	// a fetch error, never as a silent miss.
	Timeout time.Duration
}

func DefaultRPCClientConfig() RPCClientConfig {
	return RPCClientConfig{
		BaseURL: defaultRPCBaseURL,
		Timeout: defaultRPCTimeout,
	}
}

// RPCClient talks to the AUR RPC v5 JSON endpoint. It implements the fetch
// half of MetadataSource; installed/official checks live in the pacman-backed
// source.
type RPCClient struct {
	config RPCClientConfig
	client *http.Client
	cache  ResponseCache
}

// NewRPCClient builds an RPC client. cache may be nil to disable response
// caching.
func NewRPCClient(config RPCClientConfig, cache ResponseCache) (*RPCClient, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("rpc base url must not be empty")
	}

	return &RPCClient{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		cache:  cache,
	}, nil
}

// rpcEnvelope is the common AUR RPC v5 response wrapper.
type rpcEnvelope struct {
	Version     int                `json:"version"`
	Type        string             `json:"type"`
	ResultCount int                `json:"resultcount"`
	Results     []*PackageMetadata `json:"results"`
	Error       string             `json:"error"`
}

// Info performs a batched metadata lookup. Names unknown to the AUR are
// simply absent from the result; callers detect them by matching names.
func (c *RPCClient) Info(ctx context.Context, names []string) ([]*PackageMetadata, error) {
	if len(names) == 0 {
		return nil, nil
	}

	cacheKey := infoCacheKey(names)
	if c.cache != nil {
		if results, ok := c.cache.Get(cacheKey); ok {
			log.Debugf("aur rpc cache hit for %d package(s)", len(names))
			return results, nil
		}
	}

	params := url.Values{}
	for _, name := range names {
		params.Add("arg[]", name)
	}

	results, err := c.get(ctx, fmt.Sprintf("%s/info?%s", c.config.BaseURL, params.Encode()), "multiinfo")
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Put(cacheKey, results)
	}

	return results, nil
}

// Search queries the AUR by keyword.
func (c *RPCClient) Search(ctx context.Context, query string) ([]*PackageMetadata, error) {
	cacheKey := "search:" + query
	if c.cache != nil {
		if results, ok := c.cache.Get(cacheKey); ok {
			return results, nil
		}
	}

	results, err := c.get(ctx, fmt.Sprintf("%s/search/%s", c.config.BaseURL, url.PathEscape(query)), "search")
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Put(cacheKey, results)
	}

	return results, nil
}

func (c *RPCClient) get(ctx context.Context, requestURL, wantType string) ([]*PackageMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rpc request: %w", err)
	}

	req.Header.Set("User-Agent", rpcUserAgent)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("aur rpc request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("aur rpc returned status %d", res.StatusCode)
	}

	var envelope rpcEnvelope
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode aur rpc response: %w", err)
	}

	if envelope.Type == "error" {
		return nil, fmt.Errorf("aur rpc error: %s", envelope.Error)
	}

	if envelope.Type != wantType {
		return nil, fmt.Errorf("unexpected aur rpc response type %q", envelope.Type)
	}

	return envelope.Results, nil
}

// infoCacheKey is stable under request order so that the same package set
// always hits the same cache entry.
func infoCacheKey(names []string) string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)

	return "info:" + strings.Join(sorted, ",")
}
