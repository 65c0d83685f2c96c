package route

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	// DefaultPaths is used when the paths option is not set.
	DefaultPaths = "/"

	minPort = 1
	maxPort = 65535
)

//nolint:gochecknoglobals // compiled once
var hostnameRegex = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]*[a-z0-9])?(\.[a-z0-9]([-a-z0-9]*[a-z0-9])?)*$`)

// RouteConfig is the validated routing record published to integrators.
//
//nolint:revive // route.RouteConfig reads better at call sites than route.Config
type RouteConfig struct {
	Hostname    string
	Paths       []string
	Port        int
	Application string
	Namespace   string
}

// ValidateHostname reports whether s is a lowercase DNS name.
func ValidateHostname(s string) bool {
	return hostnameRegex.MatchString(s)
}

// ParsePaths splits a comma separated path list.
// Elements are trimmed but never dropped, so "/a,,/b" yields ["/a", "", "/b"].
func ParsePaths(s string) []string {
	parts := strings.Split(s, ",")

	paths := make([]string, 0, len(parts))
	for _, part := range parts {
		paths = append(paths, strings.TrimSpace(part))
	}

	return paths
}

// Validate checks that every field of the record is present and well formed.
//
//nolint:wrapcheck // errors.Newf creates new errors
func (c *RouteConfig) Validate() error {
	if c.Hostname == "" {
		return errors.New("hostname is required")
	}

	if !ValidateHostname(c.Hostname) {
		return errors.Newf("invalid hostname: %s", c.Hostname)
	}

	if len(c.Paths) == 0 {
		return errors.New("at least one path is required")
	}

	for i, path := range c.Paths {
		if path == "" {
			return errors.Newf("path %d is empty", i)
		}
	}

	if c.Port < minPort || c.Port > maxPort {
		return errors.Newf("port %d out of range (%d-%d)", c.Port, minPort, maxPort)
	}

	if c.Application == "" {
		return errors.New("application is required")
	}

	if c.Namespace == "" {
		return errors.New("namespace is required")
	}

	return nil
}
