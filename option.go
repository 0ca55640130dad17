// option.go defines options of the evaluation functions.

package livelink

import (
	"github.com/xaionaro-go/livelink/types"
)

type evaluateConfig struct {
	DesiredRole types.Role
}

type EvaluateOption interface {
	apply(*evaluateConfig)
}

type EvaluateOptions []EvaluateOption

func (s EvaluateOptions) apply(cfg *evaluateConfig) {
	for _, opt := range s {
		opt.apply(cfg)
	}
}

func (s EvaluateOptions) config() evaluateConfig {
	cfg := evaluateConfig{}
	s.apply(&cfg)
	return cfg
}

// EvaluateOptionDesiredRole requests the frame translated into another role.
type EvaluateOptionDesiredRole types.Role

func (opt EvaluateOptionDesiredRole) apply(cfg *evaluateConfig) {
	cfg.DesiredRole = types.Role(opt)
}

func WithDesiredRole(r types.Role) EvaluateOption {
	return EvaluateOptionDesiredRole(r)
}
