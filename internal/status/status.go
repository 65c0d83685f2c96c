// Package status defines the unit status reported after every reconciliation.
package status

// Kind identifies which variant of Status holds.
type Kind string

const (
	// KindBlocked needs operator action (bad config, bad upstream schema, publish failure).
	KindBlocked Kind = "blocked"
	// KindWaiting resolves on its own once a peer or its data arrives.
	KindWaiting Kind = "waiting"
	// KindActive means the route record was published.
	KindActive Kind = "active"
)

// Status is a tagged variant over Blocked, Waiting and Active.
// The zero value is not a valid status.
type Status struct {
	Kind    Kind
	Message string
}

// Blocked returns a Blocked status with the given reason.
func Blocked(reason string) Status {
	return Status{Kind: KindBlocked, Message: reason}
}

// Waiting returns a Waiting status with the given reason.
func Waiting(reason string) Status {
	return Status{Kind: KindWaiting, Message: reason}
}

// Active returns an Active status with the given message.
func Active(message string) Status {
	return Status{Kind: KindActive, Message: message}
}

// IsBlocked reports whether s is Blocked.
func (s Status) IsBlocked() bool { return s.Kind == KindBlocked }

// IsWaiting reports whether s is Waiting.
func (s Status) IsWaiting() bool { return s.Kind == KindWaiting }

// IsActive reports whether s is Active.
func (s Status) IsActive() bool { return s.Kind == KindActive }

func (s Status) String() string {
	return string(s.Kind) + ": " + s.Message
}
