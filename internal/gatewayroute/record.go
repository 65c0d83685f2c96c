package gatewayroute

import (
	"encoding/json"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/lexfrei/gateway-route-configurator/internal/relation"
	"github.com/lexfrei/gateway-route-configurator/internal/route"
)

// Record keys.
const (
	KeyHostname    = "hostname"
	KeyPaths       = "paths"
	KeyPort        = "port"
	KeyApplication = "application"
	KeyModel       = "model"
)

// ErrIncompleteRecord marks a record that misses required keys.
var ErrIncompleteRecord = errors.New("incomplete route record")

// Encode renders cfg as a databag.
func Encode(cfg *route.RouteConfig) (relation.Databag, error) {
	paths := cfg.Paths
	if paths == nil {
		paths = []string{}
	}

	encodedPaths, err := json.Marshal(paths)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode paths")
	}

	return relation.Databag{
		KeyHostname:    cfg.Hostname,
		KeyPaths:       string(encodedPaths),
		KeyPort:        strconv.Itoa(cfg.Port),
		KeyApplication: cfg.Application,
		KeyModel:       cfg.Namespace,
	}, nil
}

// Decode parses a databag produced by Encode. It does not validate the
// values; call RouteConfig.Validate for that.
func Decode(bag relation.Databag) (*route.RouteConfig, error) {
	for _, key := range []string{KeyHostname, KeyPaths, KeyPort, KeyApplication, KeyModel} {
		if _, ok := bag[key]; !ok {
			return nil, errors.Mark(errors.Newf("missing key %s", key), ErrIncompleteRecord)
		}
	}

	var paths []string

	err := json.Unmarshal([]byte(bag[KeyPaths]), &paths)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode paths")
	}

	port, err := strconv.Atoi(bag[KeyPort])
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode port")
	}

	return &route.RouteConfig{
		Hostname:    bag[KeyHostname],
		Paths:       paths,
		Port:        port,
		Application: bag[KeyApplication],
		Namespace:   bag[KeyModel],
	}, nil
}
