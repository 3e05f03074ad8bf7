// =============================================================================
// Patron Import - Tag Mapping Capability
// =============================================================================
//
// The external tag-name-mapping lookup is modeled as an injected capability
// with one method. It is best-effort by contract: every backend may fail,
// and the processor falls back to the raw tag instead of failing the run.
// No retry or backoff — a lookup gets one bounded attempt.
//
// BACKENDS:
//   - NoopMapper   : pass-through (mode "none", and the fallback behavior)
//   - StaticMapper : raw->cleaned names from a local YAML file
//   - HTTPMapper   : JSON lookup endpoint, ?tag=<raw> -> {"tag":"<cleaned>"}
//   - RedisMapper  : HGET <key> <raw> against a shared mapping hash
//
// =============================================================================

package tags

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/patron-tools/patron-import/internal/config"
)

// Mapper maps a raw tag string to its cleaned name. Implementations return
// the input unchanged when no mapping exists for it; an error means the
// capability itself failed and the caller should fall back.
type Mapper interface {
	Map(ctx context.Context, raw string) (string, error)
}

// NewMapper builds the mapper selected by the configuration.
func NewMapper(s config.MapperSettings) (Mapper, error) {
	timeout := time.Duration(s.TimeoutMS) * time.Millisecond

	switch s.Mode {
	case "none":
		return NoopMapper{}, nil
	case "static":
		return LoadStaticMapper(s.MappingFile)
	case "http":
		return &HTTPMapper{
			Endpoint: s.Endpoint,
			Client:   &http.Client{Timeout: timeout},
		}, nil
	case "redis":
		return &RedisMapper{
			Client:  redis.NewClient(&redis.Options{Addr: s.RedisAddr}),
			Key:     s.RedisKey,
			Timeout: timeout,
		}, nil
	default:
		return nil, fmt.Errorf("unknown tag mapper mode: %s", s.Mode)
	}
}

// NoopMapper passes every tag through unchanged.
type NoopMapper struct{}

func (NoopMapper) Map(_ context.Context, raw string) (string, error) {
	return raw, nil
}

// StaticMapper resolves tags from an in-memory table.
type StaticMapper struct {
	table map[string]string
}

// NewStaticMapper wraps an existing table.
func NewStaticMapper(table map[string]string) *StaticMapper {
	return &StaticMapper{table: table}
}

// LoadStaticMapper reads a YAML file of raw->cleaned tag names.
func LoadStaticMapper(path string) (*StaticMapper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tag mapping file: %w", err)
	}
	table := make(map[string]string)
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse tag mapping file: %w", err)
	}
	return &StaticMapper{table: table}, nil
}

func (m *StaticMapper) Map(_ context.Context, raw string) (string, error) {
	if cleaned, ok := m.table[raw]; ok {
		return cleaned, nil
	}
	return raw, nil
}

// HTTPMapper queries a JSON lookup endpoint.
type HTTPMapper struct {
	Endpoint string
	Client   *http.Client
}

type httpMapResponse struct {
	Tag string `json:"tag"`
}

func (m *HTTPMapper) Map(ctx context.Context, raw string) (string, error) {
	u := m.Endpoint + "?tag=" + url.QueryEscape(raw)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build lookup request: %w", err)
	}

	resp, err := m.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("tag lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tag lookup returned status %d", resp.StatusCode)
	}

	var body httpMapResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode lookup response: %w", err)
	}
	if body.Tag == "" {
		// Endpoint knows no mapping for this tag.
		return raw, nil
	}
	return body.Tag, nil
}

// RedisMapper resolves tags from a Redis hash of raw->cleaned names.
type RedisMapper struct {
	Client  *redis.Client
	Key     string
	Timeout time.Duration
}

func (m *RedisMapper) Map(ctx context.Context, raw string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.Timeout)
	defer cancel()

	cleaned, err := m.Client.HGet(ctx, m.Key, raw).Result()
	if err == redis.Nil {
		return raw, nil
	}
	if err != nil {
		return "", fmt.Errorf("tag lookup failed: %w", err)
	}
	return cleaned, nil
}
