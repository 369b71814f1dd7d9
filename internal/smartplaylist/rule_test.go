package smartplaylist

import (
	"testing"
	"time"
)

var evalNow = time.Unix(1_700_000_000, 0)

func TestRuleOperators(t *testing.T) {
	ctx := Context{
		"kind":     "audio",
		"rating":   4,
		"genre":    "Progressive Rock",
		"title":    "Echoes",
		"tags":     []string{"Live", "favorite"},
		"duration": 1402.5,
		"year":     1971,
		"size":     int64(52_428_800),
	}

	tests := []struct {
		name string
		rule Rule
		want bool
	}{
		{"eq string", Rule{Field: "kind", Op: OpEq, Value: "audio"}, true},
		{"eq string miss", Rule{Field: "kind", Op: OpEq, Value: "video"}, false},
		{"eq numeric cross-type", Rule{Field: "rating", Op: OpEq, Value: 4.0}, true},
		{"eq numeric string", Rule{Field: "rating", Op: OpEq, Value: "4"}, true},
		{"ne", Rule{Field: "kind", Op: OpNe, Value: "video"}, true},
		{"ge at boundary", Rule{Field: "rating", Op: OpGe, Value: 4}, true},
		{"ge above", Rule{Field: "rating", Op: OpGe, Value: 5}, false},
		{"le at boundary", Rule{Field: "rating", Op: OpLe, Value: 4}, true},
		{"gt strict", Rule{Field: "rating", Op: OpGt, Value: 4}, false},
		{"lt strict", Rule{Field: "rating", Op: OpLt, Value: 5}, true},
		{"between inclusive low", Rule{Field: "year", Op: OpBetween, Value: []interface{}{1971, 1980}}, true},
		{"between inclusive high", Rule{Field: "year", Op: OpBetween, Value: []interface{}{1960, 1971}}, true},
		{"between outside", Rule{Field: "year", Op: OpBetween, Value: []interface{}{1980, 1990}}, false},
		{"contains substring case-sensitive", Rule{Field: "genre", Op: OpContains, Value: "Rock"}, true},
		{"contains substring wrong case", Rule{Field: "genre", Op: OpContains, Value: "rock"}, false},
		{"contains collection member", Rule{Field: "tags", Op: OpContains, Value: "favorite"}, true},
		{"contains collection wrong case", Rule{Field: "tags", Op: OpContains, Value: "live"}, false},
		{"not_contains", Rule{Field: "genre", Op: OpNotContains, Value: "Jazz"}, true},
		{"icontains", Rule{Field: "genre", Op: OpIContains, Value: "rock"}, true},
		{"in", Rule{Field: "kind", Op: OpIn, Value: []interface{}{"audio", "video"}}, true},
		{"in miss", Rule{Field: "kind", Op: OpIn, Value: []interface{}{"image", "doc"}}, false},
		{"startswith", Rule{Field: "title", Op: OpStartsWith, Value: "ech"}, true},
		{"endswith", Rule{Field: "title", Op: OpEndsWith, Value: "OES"}, true},
		{"has_tag case-insensitive", Rule{Field: "tags", Op: OpHasTag, Value: "LIVE"}, true},
		{"has_tag miss", Rule{Field: "tags", Op: OpHasTag, Value: "studio"}, false},
		{"regex", Rule{Field: "title", Op: OpRegex, Value: "^Ech"}, true},
		{"regex miss", Rule{Field: "title", Op: OpRegex, Value: "^Dogs$"}, false},
		{"negate flips match", Rule{Field: "kind", Op: OpEq, Value: "audio", Negate: true}, false},
		{"negate flips miss", Rule{Field: "kind", Op: OpEq, Value: "video", Negate: true}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.rule.Matches(ctx, evalNow); got != tc.want {
				t.Errorf("Matches() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestWithinWindows(t *testing.T) {
	now := evalNow

	tests := []struct {
		name string
		rule Rule
		age  int64 // seconds before now
		want bool
	}{
		{"hours inside", Rule{Field: "mtime", Op: OpWithinHours, Value: 2}, 3600, true},
		{"hours at boundary", Rule{Field: "mtime", Op: OpWithinHours, Value: 2}, 2 * 3600, true},
		{"hours outside", Rule{Field: "mtime", Op: OpWithinHours, Value: 2}, 2*3600 + 1, false},
		{"days inside", Rule{Field: "mtime", Op: OpWithinDays, Value: 7}, 6 * 86400, true},
		{"days at boundary", Rule{Field: "mtime", Op: OpWithinDays, Value: 7}, 7 * 86400, true},
		{"days outside", Rule{Field: "mtime", Op: OpWithinDays, Value: 7}, 8 * 86400, false},
		{"weeks inside", Rule{Field: "mtime", Op: OpWithinWeeks, Value: 2}, 13 * 86400, true},
		{"weeks outside", Rule{Field: "mtime", Op: OpWithinWeeks, Value: 2}, 15 * 86400, false},
		{"months at boundary", Rule{Field: "mtime", Op: OpWithinMonths, Value: 1}, secondsPerMonth, true},
		{"months outside", Rule{Field: "mtime", Op: OpWithinMonths, Value: 1}, secondsPerMonth + 1, false},
		{"future timestamp matches", Rule{Field: "mtime", Op: OpWithinDays, Value: 1}, -3600, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := Context{"mtime": now.Unix() - tc.age}
			if got := tc.rule.Matches(ctx, now); got != tc.want {
				t.Errorf("Matches() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestWithinImplausibleEpoch(t *testing.T) {
	rule := Rule{Field: "mtime", Op: OpWithinDays, Value: 10_000}
	ctx := Context{"mtime": int64(0)}

	if got := rule.Evaluate(ctx, evalNow); got != OutcomeMissingField {
		t.Errorf("Evaluate() = %v, want missing_field", got)
	}
	if rule.Matches(ctx, evalNow) {
		t.Error("zero epoch should never match a recency window")
	}
}

func TestOutcomes(t *testing.T) {
	ctx := Context{
		"kind":   "audio",
		"rating": 4,
	}

	tests := []struct {
		name string
		rule Rule
		want Outcome
	}{
		{"matched", Rule{Field: "kind", Op: OpEq, Value: "audio"}, OutcomeMatched},
		{"not matched", Rule{Field: "kind", Op: OpEq, Value: "video"}, OutcomeNotMatched},
		{"missing field", Rule{Field: "genre", Op: OpEq, Value: "Rock"}, OutcomeMissingField},
		{"missing field on ne", Rule{Field: "genre", Op: OpNe, Value: "Rock"}, OutcomeMissingField},
		{"type mismatch on ordering", Rule{Field: "kind", Op: OpGe, Value: 3}, OutcomeTypeMismatch},
		{"unsupported op", Rule{Field: "kind", Op: "~="}, OutcomeUnsupportedOp},
		{"between missing bound", Rule{Field: "rating", Op: OpBetween, Value: []interface{}{1}}, OutcomeBadValue},
		{"between scalar value", Rule{Field: "rating", Op: OpBetween, Value: 3}, OutcomeBadValue},
		{"in with scalar value", Rule{Field: "kind", Op: OpIn, Value: "audio"}, OutcomeBadValue},
		{"regex bad pattern", Rule{Field: "kind", Op: OpRegex, Value: "("}, OutcomeBadValue},
		{"has_tag on scalar", Rule{Field: "kind", Op: OpHasTag, Value: "x"}, OutcomeTypeMismatch},
		{"within negative window", Rule{Field: "rating", Op: OpWithinDays, Value: -1}, OutcomeBadValue},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.rule.Evaluate(ctx, evalNow); got != tc.want {
				t.Errorf("Evaluate() = %v, want %v", got, tc.want)
			}
		})
	}
}

// A field absent from the context fails the rule even when the
// operator is != and even when negate would otherwise flip the result
// back: negate applies to the (false) outcome, not to field presence.
func TestMissingFieldAlwaysFalsePreNegate(t *testing.T) {
	ctx := Context{"kind": "audio"}

	ne := Rule{Field: "genre", Op: OpNe, Value: "Rock"}
	if ne.Matches(ctx, evalNow) {
		t.Error("!= on a missing field must not match")
	}

	negated := Rule{Field: "genre", Op: OpEq, Value: "Rock", Negate: true}
	if !negated.Matches(ctx, evalNow) {
		t.Error("negate flips the non-match of a missing field to true")
	}
}

func TestRuleValidate(t *testing.T) {
	if err := (Rule{Field: "kind", Op: OpEq, Value: "audio"}).Validate(); err != nil {
		t.Errorf("valid rule rejected: %v", err)
	}
	if err := (Rule{Field: "kind", Op: "like", Value: "x"}).Validate(); err == nil {
		t.Error("unknown operator accepted")
	}
}
