package redis

import (
	"context"
	"time"
)

var setNXValue = SetNX

// Throttle is a SetNX-based cooldown gate. Allow claims the key for the
// cooldown window; until it expires, further calls for the same subject are
// refused. With redis disabled every call is allowed.
type Throttle struct {
	prefix   string
	cooldown time.Duration
}

// NewThrottle creates a throttle under the given key prefix
func NewThrottle(prefix string, cooldown time.Duration) *Throttle {
	return &Throttle{prefix: prefix, cooldown: cooldown}
}

// Allow reports whether the subject may proceed, claiming the cooldown slot
// when it does.
func (t *Throttle) Allow(ctx context.Context, subject string) (bool, error) {
	if !Enabled() || t.cooldown <= 0 {
		return true, nil
	}
	return setNXValue(ctx, t.prefix+":"+subject, time.Now().Unix(), t.cooldown)
}
