package core

import "stockcore/pkg/domain"

type (
	// Rule is evaluated against the transactional view at commit time.
	Rule = domain.Rule
	// RulesEngine orchestrates rule evaluation.
	RulesEngine = domain.RulesEngine
)

// NewRulesEngine constructs an empty engine instance.
func NewRulesEngine() *RulesEngine {
	return domain.NewRulesEngine()
}

// NewDefaultRulesEngine builds a rules engine with the built-in policy set.
// The rules re-check the service-level invariants at commit time so that
// no code path, present or future, can persist an inconsistent state.
func NewDefaultRulesEngine() *RulesEngine {
	engine := NewRulesEngine()
	engine.Register(NewStorageConsistencyRule())
	engine.Register(NewComponentIntegrityRule())
	engine.Register(NewResourceDepreciationRule())
	return engine
}
