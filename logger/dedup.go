package logger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xaionaro-go/xsync"
)

// Deduplicator remembers which causes were already reported, so a condition
// that holds for every frame is logged once instead of at the data rate.
type Deduplicator struct {
	warned    xsync.Map[string, struct{}]
	lastError xsync.Map[string, time.Time]
	now       func() time.Time
}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{
		now: time.Now,
	}
}

// WarnOnce logs the warning the first time the key is seen and reports
// whether it did.
func (d *Deduplicator) WarnOnce(
	ctx context.Context,
	key string,
	format string,
	args ...any,
) bool {
	if _, loaded := d.warned.LoadOrStore(key, struct{}{}); loaded {
		return false
	}
	Warnf(ctx, format, args...)
	return true
}

// ErrorfRateLimited logs the error at most once per period per key and
// reports whether it did.
func (d *Deduplicator) ErrorfRateLimited(
	ctx context.Context,
	key string,
	period time.Duration,
	format string,
	args ...any,
) bool {
	now := d.now()
	if prev, ok := d.lastError.Load(key); ok && now.Sub(prev) < period {
		return false
	}
	d.lastError.Store(key, now)
	Errorf(ctx, format, args...)
	return true
}

// Forget drops every remembered key with the given prefix, so a recreated
// subject gets its warnings again.
func (d *Deduplicator) Forget(prefix string) {
	d.warned.Range(func(key string, _ struct{}) bool {
		if strings.HasPrefix(key, prefix) {
			d.warned.Delete(key)
		}
		return true
	})
	d.lastError.Range(func(key string, _ time.Time) bool {
		if strings.HasPrefix(key, prefix) {
			d.lastError.Delete(key)
		}
		return true
	})
}

// Key joins the parts into a dedup key.
func Key(parts ...any) string {
	var sb strings.Builder
	for idx, part := range parts {
		if idx > 0 {
			sb.WriteByte('|')
		}
		fmt.Fprint(&sb, part)
	}
	return sb.String()
}
