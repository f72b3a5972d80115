// Package brew queries Homebrew for formula info and service state.
package brew

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/phpdoctor/phpdoctor/internal/errors"
	"github.com/phpdoctor/phpdoctor/internal/shell"
)

// PHPInfo is the decoded result of `brew info <formula> --json`.
// The first element of the JSON array is authoritative.
type PHPInfo struct {
	Name     string   `json:"name"`
	FullName string   `json:"full_name"`
	Version  string   `json:"version"`
	Aliases  []string `json:"aliases"`
}

// Service is one row of `brew services list`.
type Service struct {
	Name   string
	Status string
	User   string
}

// Started reports whether the service is in the "started" state.
func (s Service) Started() bool {
	return s.Status == "started"
}

// Client runs brew commands through a shell.Runner and caches results.
// Caching keeps watch mode from invoking brew on every filesystem event.
type Client struct {
	runner  shell.Runner
	brewBin string
	cache   *expirable.LRU[string, string]
}

// cacheSize bounds distinct cached command outputs. Two commands are in
// play (info and services list), so a handful of slots is plenty.
const cacheSize = 8

// NewClient creates a brew client using the given brew binary path.
// ttl controls how long command output is reused; zero disables caching.
func NewClient(runner shell.Runner, brewBin string, ttl time.Duration) *Client {
	c := &Client{
		runner:  runner,
		brewBin: brewBin,
	}
	if ttl > 0 {
		c.cache = expirable.NewLRU[string, string](cacheSize, nil, ttl)
	}
	return c
}

// Info queries `brew info <formula> --json` and decodes the first element.
// A malformed or empty response is returned as a fatal decode error; the
// caller must not continue with an undefined version.
func (c *Client) Info(ctx context.Context, formula string) (*PHPInfo, error) {
	out, err := c.output(ctx, "info", formula, "--json")
	if err != nil {
		return nil, errors.ExecError(fmt.Sprintf("brew info %s failed", formula), err)
	}

	var entries []PHPInfo
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		return nil, errors.DecodeError(fmt.Sprintf("brew info %s returned malformed JSON", formula), err)
	}
	if len(entries) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyResponse,
			fmt.Sprintf("brew info %s returned no entries", formula), nil)
	}

	info := entries[0]
	if info.Version == "" {
		return nil, errors.DecodeError(
			fmt.Sprintf("brew info %s entry has no version", formula), nil)
	}
	return &info, nil
}

// Services parses `brew services list` output.
//
// Expected format:
//
//	Name   Status  User    File
//	php    started sam     ~/Library/LaunchAgents/homebrew.mxcl.php.plist
//	mysql  none
func (c *Client) Services(ctx context.Context) ([]Service, error) {
	out, err := c.output(ctx, "services", "list")
	if err != nil {
		return nil, errors.ExecError("brew services list failed", err)
	}

	var services []Service
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		// The header row is matched by content, not position; brew may emit
		// blank lines before it
		if len(fields) >= 2 && fields[0] == "Name" && fields[1] == "Status" {
			continue
		}
		if len(fields) < 2 {
			continue
		}
		svc := Service{Name: fields[0], Status: fields[1]}
		if len(fields) >= 3 {
			svc.User = fields[2]
		}
		services = append(services, svc)
	}
	return services, nil
}

// StartedPHPCount counts php services reported as started.
func (c *Client) StartedPHPCount(ctx context.Context) (int, error) {
	services, err := c.Services(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, svc := range services {
		if strings.Contains(svc.Name, "php") && svc.Started() {
			count++
		}
	}
	return count, nil
}

// Invalidate drops all cached command output.
func (c *Client) Invalidate() {
	if c.cache != nil {
		c.cache.Purge()
	}
}

// output runs a brew subcommand, consulting the cache first.
func (c *Client) output(ctx context.Context, args ...string) (string, error) {
	key := strings.Join(args, " ")
	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			return cached, nil
		}
	}

	out, err := c.runner.Output(ctx, c.brewBin, args...)
	if err != nil {
		return "", err
	}

	if c.cache != nil {
		c.cache.Add(key, out)
	}
	return out, nil
}
