package out

import (
	"context"

	timerout "focus/internal/modules/timer/port/out"
)

// ConfigPermission answers the "notifications permitted" capability from
// configuration plus optional runtime probes (all must pass).
type ConfigPermission struct {
	enabled bool
	probes  []func() bool
}

var _ timerout.PermissionChecker = ConfigPermission{}

func NewConfigPermission(enabled bool, probes ...func() bool) ConfigPermission {
	return ConfigPermission{enabled: enabled, probes: probes}
}

func (p ConfigPermission) NotificationsPermitted(_ context.Context) bool {
	if !p.enabled {
		return false
	}
	for _, probe := range p.probes {
		if !probe() {
			return false
		}
	}
	return true
}
