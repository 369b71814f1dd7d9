package smartplaylist

import (
	"fmt"
	"time"
)

// Group match modes.
const (
	// MatchAll combines child results with AND.
	MatchAll = "all"
	// MatchAny combines child results with OR.
	MatchAny = "any"
)

// RuleGroup is a boolean combinator over rules and nested groups.
// Arbitrary AND/OR/NOT trees are built from just this shape: AND and
// OR via Match, NOT via Negate on a wrapping group (or on a rule).
type RuleGroup struct {
	Match  string      `json:"match"`
	Negate bool        `json:"negate,omitempty"`
	Rules  []Rule      `json:"rules"`
	Groups []RuleGroup `json:"groups,omitempty"`
}

// Validate rejects unknown match modes and unsupported operators,
// recursively. Structural errors are construction-time failures, never
// a defensive fallback to "all".
func (g RuleGroup) Validate() error {
	if g.Match != MatchAll && g.Match != MatchAny {
		return fmt.Errorf("%w: %q", ErrInvalidMatch, g.Match)
	}
	for i, r := range g.Rules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
	}
	for i, sub := range g.Groups {
		if err := sub.Validate(); err != nil {
			return fmt.Errorf("group %d: %w", i, err)
		}
	}
	return nil
}

// Matches evaluates every direct rule and nested group against ctx and
// combines the results per the match mode, then applies the group's
// own negate flag.
//
// Empty groups follow the boolean identities: AND over nothing is
// true, OR over nothing is false, both before negation.
func (g RuleGroup) Matches(ctx Context, now time.Time) bool {
	var result bool
	switch g.Match {
	case MatchAny:
		result = false
		for _, r := range g.Rules {
			if r.Matches(ctx, now) {
				result = true
				break
			}
		}
		if !result {
			for _, sub := range g.Groups {
				if sub.Matches(ctx, now) {
					result = true
					break
				}
			}
		}
	default: // MatchAll; Validate has already rejected anything else
		result = true
		for _, r := range g.Rules {
			if !r.Matches(ctx, now) {
				result = false
				break
			}
		}
		if result {
			for _, sub := range g.Groups {
				if !sub.Matches(ctx, now) {
					result = false
					break
				}
			}
		}
	}

	if g.Negate {
		return !result
	}
	return result
}
