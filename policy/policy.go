// Package policy turns verification results and certified attributes into a
// grant/deny decision. The eligibility rules themselves are supplied by the
// relying party as a predicate; this package only guarantees that no attribute
// rule is ever evaluated, and thus no partial-eligibility information ever
// produced, unless both the proof and the credential checked out.
package policy

import (
	"github.com/verifid/sigma"
)

// Outcome is the final verdict of a decision.
type Outcome string

const (
	Grant Outcome = "GRANT"
	Deny  Outcome = "DENY"
)

// Decision is an outcome with the ordered reasons that led to it.
type Decision struct {
	Outcome Outcome  `json:"decision"`
	Reasons []string `json:"reasons"`
}

// Granted reports whether the decision is a grant.
func (d Decision) Granted() bool {
	return d.Outcome == Grant
}

// Predicate evaluates certified attributes against the relying party's
// eligibility rules, returning the verdict and its reasons.
type Predicate func(attrs sigma.Attributes) (bool, []string)

// Engine produces decisions from verification results and a predicate.
type Engine struct {
	predicate Predicate
}

// NewEngine creates a decision engine. A nil predicate grants whenever proof
// and credential are valid.
func NewEngine(predicate Predicate) *Engine {
	return &Engine{predicate: predicate}
}

// Decide produces the decision for one verification attempt. It short-circuits
// to Deny when the proof or the credential failed, without touching the
// attribute predicate.
func (e *Engine) Decide(proofValid, credentialValid bool, attrs sigma.Attributes) Decision {
	if !proofValid {
		return Decision{Outcome: Deny, Reasons: []string{"proof verification failed"}}
	}
	if !credentialValid {
		return Decision{Outcome: Deny, Reasons: []string{"credential validation failed"}}
	}

	reasons := []string{"proof verified", "credential valid"}
	if e.predicate == nil {
		return Decision{Outcome: Grant, Reasons: append(reasons, "no attribute policy configured")}
	}

	ok, predicateReasons := e.predicate(attrs)
	reasons = append(reasons, predicateReasons...)
	if !ok {
		return Decision{Outcome: Deny, Reasons: reasons}
	}
	return Decision{Outcome: Grant, Reasons: reasons}
}

// RequireAttributes is a predicate requiring every named attribute to be
// present and non-empty.
func RequireAttributes(names ...string) Predicate {
	return func(attrs sigma.Attributes) (bool, []string) {
		ok := true
		var reasons []string
		for _, name := range names {
			if value, found := attrs.Get(name); !found || value == "" {
				ok = false
				reasons = append(reasons, "missing required attribute: "+name)
			}
		}
		if ok {
			reasons = append(reasons, "all required attributes present")
		}
		return ok, reasons
	}
}

// All combines predicates; every one must pass. Reasons are accumulated in
// order, including those of failing predicates.
func All(predicates ...Predicate) Predicate {
	return func(attrs sigma.Attributes) (bool, []string) {
		ok := true
		var reasons []string
		for _, predicate := range predicates {
			passed, predicateReasons := predicate(attrs)
			reasons = append(reasons, predicateReasons...)
			if !passed {
				ok = false
			}
		}
		return ok, reasons
	}
}
