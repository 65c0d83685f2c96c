package gatewayroute

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"

	"github.com/lexfrei/gateway-route-configurator/internal/relation"
	"github.com/lexfrei/gateway-route-configurator/internal/route"
)

// DefaultRelationName is the relation integrators consume routes on.
const DefaultRelationName = "gateway-route"

// Requirer publishes the local route configuration to the integrator.
type Requirer struct {
	store        relation.Store
	relationName string
	identity     string
	logger       *slog.Logger
}

// NewRequirer creates a Requirer writing identity's databag in relationName.
func NewRequirer(store relation.Store, relationName, identity string) *Requirer {
	if relationName == "" {
		relationName = DefaultRelationName
	}

	return &Requirer{
		store:        store,
		relationName: relationName,
		identity:     identity,
		logger:       slog.Default().With("component", "gateway-route-requirer"),
	}
}

// SendRouteConfiguration writes cfg into the local databag, replacing any
// previous record. If the relation does not exist yet, or the databag already
// holds the same record, nothing is written and nil is returned.
func (r *Requirer) SendRouteConfiguration(ctx context.Context, cfg *route.RouteConfig) error {
	rel, err := r.store.Get(ctx, r.relationName)
	if err != nil {
		if errors.Is(err, relation.ErrNotFound) {
			r.logger.Warn("relation not found, skipping route configuration", "relation", r.relationName)

			return nil
		}

		return errors.Wrapf(err, "failed to get %s relation", r.relationName)
	}

	bag, err := Encode(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to encode route configuration")
	}

	toSet, toRemove := DiffRecords(rel.Data(r.identity), bag)
	if len(toSet) == 0 && len(toRemove) == 0 {
		r.logger.Debug("route configuration unchanged", "relation", r.relationName)

		return nil
	}

	err = r.store.Write(ctx, r.relationName, r.identity, bag)
	if err != nil {
		return errors.Wrap(err, "failed to write route configuration")
	}

	r.logger.Debug("route configuration sent",
		"relation", r.relationName,
		"hostname", cfg.Hostname,
		"paths", len(cfg.Paths),
		"set", toSet,
		"removed", toRemove,
	)

	return nil
}
