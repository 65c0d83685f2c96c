package status_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lexfrei/gateway-route-configurator/internal/status"
)

func TestConstructors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  status.Status
		kind    status.Kind
		blocked bool
		waiting bool
		active  bool
	}{
		{name: "blocked", status: status.Blocked("bad"), kind: status.KindBlocked, blocked: true},
		{name: "waiting", status: status.Waiting("soon"), kind: status.KindWaiting, waiting: true},
		{name: "active", status: status.Active("Ready"), kind: status.KindActive, active: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.kind, tt.status.Kind)
			assert.Equal(t, tt.blocked, tt.status.IsBlocked())
			assert.Equal(t, tt.waiting, tt.status.IsWaiting())
			assert.Equal(t, tt.active, tt.status.IsActive())
		})
	}
}

func TestString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "blocked: Missing 'hostname' config", status.Blocked("Missing 'hostname' config").String())
	assert.Equal(t, "active: Ready", status.Active("Ready").String())
}
