package gatewayroute

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/lexfrei/gateway-route-configurator/internal/relation"
	"github.com/lexfrei/gateway-route-configurator/internal/route"
)

// PeerRoute is a record published by one configurator.
type PeerRoute struct {
	Identity string
	Config   *route.RouteConfig
}

// PeerError describes a peer whose record could not be used.
type PeerError struct {
	Identity string
	Err      error
}

// Provider reads route records on the integrator side.
type Provider struct {
	store        relation.Store
	relationName string
}

// NewProvider creates a Provider reading relationName from store.
func NewProvider(store relation.Store, relationName string) *Provider {
	if relationName == "" {
		relationName = DefaultRelationName
	}

	return &Provider{store: store, relationName: relationName}
}

// RouteConfigurations returns the valid records of every remote peer in
// identity order. Peers that have not published yet are skipped silently;
// peers with undecodable or invalid records are reported in the second
// return value. A missing relation yields no routes and no error.
func (p *Provider) RouteConfigurations(ctx context.Context) ([]PeerRoute, []PeerError, error) {
	rel, err := p.store.Get(ctx, p.relationName)
	if err != nil {
		if errors.Is(err, relation.ErrNotFound) {
			return nil, nil, nil
		}

		return nil, nil, errors.Wrapf(err, "failed to get %s relation", p.relationName)
	}

	var (
		routes  []PeerRoute
		invalid []PeerError
	)

	for _, identity := range rel.Peers() {
		bag := rel.Data(identity)
		if len(bag) == 0 {
			continue
		}

		cfg, decodeErr := Decode(bag)
		if decodeErr == nil {
			decodeErr = cfg.Validate()
		}

		if decodeErr != nil {
			invalid = append(invalid, PeerError{Identity: identity, Err: decodeErr})

			continue
		}

		routes = append(routes, PeerRoute{Identity: identity, Config: cfg})
	}

	return routes, invalid, nil
}
