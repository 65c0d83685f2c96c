// Package relation models named channels shared between peers.
//
// A relation holds one databag per identity (the local unit plus every
// remote peer). The local side reads remote databags and writes only its
// own. Store abstracts where the databags live.
package relation

import (
	"context"
	"maps"
	"slices"

	"github.com/cockroachdb/errors"
)

// ErrNotFound is returned by Store.Get when the relation does not exist.
var ErrNotFound = errors.New("relation not found")

// Databag is the string map a single identity owns inside a relation.
type Databag map[string]string

// Store reads and writes relation databags.
type Store interface {
	// Get returns the relation as seen from the local identity.
	// It returns ErrNotFound if the relation does not exist.
	Get(ctx context.Context, name string) (*Relation, error)

	// Write replaces the databag of identity in relation name.
	Write(ctx context.Context, name, identity string, bag Databag) error
}

// Relation is a snapshot of a named channel.
type Relation struct {
	Name  string
	Local string

	bags map[string]Databag
}

// New returns a relation snapshot. bags is keyed by identity and may include
// the local identity.
func New(name, local string, bags map[string]Databag) *Relation {
	copied := make(map[string]Databag, len(bags))
	for identity, bag := range bags {
		copied[identity] = maps.Clone(bag)
	}

	return &Relation{Name: name, Local: local, bags: copied}
}

// Peers returns the remote identities in sorted order.
func (r *Relation) Peers() []string {
	peers := make([]string, 0, len(r.bags))

	for identity := range r.bags {
		if identity != r.Local {
			peers = append(peers, identity)
		}
	}

	slices.Sort(peers)

	return peers
}

// HasPeers reports whether any remote identity joined the relation.
func (r *Relation) HasPeers() bool {
	return len(r.Peers()) > 0
}

// Data returns a copy of the databag owned by identity, or nil if absent.
func (r *Relation) Data(identity string) Databag {
	bag, ok := r.bags[identity]
	if !ok {
		return nil
	}

	return maps.Clone(bag)
}

// LocalData returns a copy of the local identity's databag.
func (r *Relation) LocalData() Databag {
	return r.Data(r.Local)
}
