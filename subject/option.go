// option.go defines functional options for subject buffers.

package subject

import (
	"github.com/xaionaro-go/livelink/logger"
)

type config struct {
	Observer     Observer
	Deduplicator *logger.Deduplicator
}

type Option interface {
	apply(*config)
}

type Options []Option

func (s Options) apply(cfg *config) {
	for _, opt := range s {
		opt.apply(cfg)
	}
}

func (s Options) config() config {
	cfg := config{}
	s.apply(&cfg)
	if cfg.Deduplicator == nil {
		cfg.Deduplicator = logger.NewDeduplicator()
	}
	return cfg
}

type OptionObserver struct {
	Observer
}

func (opt OptionObserver) apply(cfg *config) {
	cfg.Observer = opt.Observer
}

// OptionDeduplicator shares the warning deduplication state, so that the
// owner can forget the keys of a removed subject.
type OptionDeduplicator struct {
	*logger.Deduplicator
}

func (opt OptionDeduplicator) apply(cfg *config) {
	cfg.Deduplicator = opt.Deduplicator
}
