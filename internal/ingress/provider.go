package ingress

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/lexfrei/gateway-route-configurator/internal/relation"
)

// DefaultRelationName is the relation the workload requests ingress on.
const DefaultRelationName = "ingress"

// Provider is the ingress provider side: it reads what the workload asks for.
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

// Relation returns the current ingress relation.
// It returns an error matching relation.ErrNotFound if the relation does not exist.
func (p *Provider) Relation(ctx context.Context) (*relation.Relation, error) {
	rel, err := p.store.Get(ctx, p.relationName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get %s relation", p.relationName)
	}

	return rel, nil
}

// Data decodes the application data of the first remote peer.
// Only a single workload application is supported per relation.
func (p *Provider) Data(rel *relation.Relation) (*AppData, error) {
	peers := rel.Peers()
	if len(peers) == 0 {
		return nil, ErrDataNotReady
	}

	data, err := DecodeAppData(rel.Data(peers[0]))
	if err != nil {
		return nil, errors.Wrapf(err, "peer %s", peers[0])
	}

	return data, nil
}
