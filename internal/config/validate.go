package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/patternkit/patternkit/internal/normalize"
	"github.com/patternkit/patternkit/internal/patterns"
)

type ValidationError struct {
	Problems []string
}

func (v *ValidationError) Add(format string, args ...any) {
	v.Problems = append(v.Problems, fmt.Sprintf(format, args...))
}

func (v *ValidationError) Error() string {
	return fmt.Sprintf("%d validation error(s)", len(v.Problems))
}

func (c *Config) Validate() error {
	v := &ValidationError{}

	if c.ConfigVersion != 1 {
		v.Add("configVersion must be 1")
	}

	if len(c.Extract.Categories) == 0 {
		v.Add("extract.categories must not be empty")
	}
	seen := map[string]struct{}{}
	for i, raw := range c.Extract.Categories {
		if _, err := patterns.ParseCategory(raw); err != nil {
			v.Add("extract.categories[%d] %q is not a known category", i, raw)
			continue
		}
		if _, exists := seen[raw]; exists {
			v.Add("extract.categories[%d] %q is duplicated", i, raw)
			continue
		}
		seen[raw] = struct{}{}
	}
	if c.Extract.Normalize.MaxDecodeDepth < 0 {
		v.Add("extract.normalize.maxDecodeDepth must be >= 0")
	}

	if c.Limits.MaxInputBytes <= 0 {
		v.Add("limits.maxInputBytes must be > 0")
	}

	if err := validateListen(c.Server.Listen); err != nil {
		v.Add("server.listen invalid: %v", err)
	}

	if c.Server.TLS.Enabled {
		if c.Server.TLS.CertFile == "" {
			v.Add("server.tls.certFile required when tls.enabled is true")
		} else if err := requireFile(c.resolvePath(c.Server.TLS.CertFile)); err != nil {
			v.Add("server.tls.certFile invalid: %v", err)
		}
		if c.Server.TLS.KeyFile == "" {
			v.Add("server.tls.keyFile required when tls.enabled is true")
		} else if err := requireFile(c.resolvePath(c.Server.TLS.KeyFile)); err != nil {
			v.Add("server.tls.keyFile invalid: %v", err)
		}
	}

	if rl := c.Server.RateLimit; rl.Enabled {
		switch rl.Key {
		case RateLimitKeyIP, RateLimitKeyEndpoint:
		default:
			v.Add("server.rateLimit.key must be ip|ip_endpoint")
		}
		if rl.RPS <= 0 {
			v.Add("server.rateLimit.rps must be > 0")
		}
		if rl.Burst <= 0 {
			v.Add("server.rateLimit.burst must be > 0")
		}
		if rl.StatusCode != 0 && (rl.StatusCode < 400 || rl.StatusCode > 599) {
			v.Add("server.rateLimit.statusCode must be a 4xx or 5xx code")
		}
	}

	if c.Metrics.Enabled {
		if err := validateListen(c.Metrics.Listen); err != nil {
			v.Add("metrics.listen invalid: %v", err)
		}
	}

	if c.Logging.ResultLog != "" {
		if err := ensureWritable(c.resolvePath(c.Logging.ResultLog)); err != nil {
			v.Add("logging.resultLog invalid: %v", err)
		}
	}

	if len(v.Problems) > 0 {
		sort.Strings(v.Problems)
		return v
	}
	return nil
}

// Categories returns the configured categories. Call after Validate.
func (c *Config) Categories() []patterns.Category {
	out := make([]patterns.Category, 0, len(c.Extract.Categories))
	for _, raw := range c.Extract.Categories {
		if cat, err := patterns.ParseCategory(raw); err == nil {
			out = append(out, cat)
		}
	}
	return out
}

func (c *Config) NormalizeOptions() normalize.Options {
	return normalize.Options{
		Trim:           c.Extract.Normalize.Trim,
		URLDecode:      c.Extract.Normalize.URLDecode,
		HTMLEntity:     c.Extract.Normalize.HTMLEntity,
		MaxDecodeDepth: c.Extract.Normalize.MaxDecodeDepth,
	}
}

func validateListen(addr string) error {
	if strings.TrimSpace(addr) == "" {
		return errors.New("address is required")
	}
	if _, err := net.ResolveTCPAddr("tcp", addr); err != nil {
		return err
	}
	return nil
}

func requireFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

func ensureWritable(path string) error {
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	file, err := os.CreateTemp(dir, "patternkit-validate-*")
	if err != nil {
		return err
	}
	name := file.Name()
	if err := file.Close(); err != nil {
		return err
	}
	return os.Remove(name)
}
