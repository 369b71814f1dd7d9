package smartplaylist

import (
	"errors"
	"testing"
)

func TestEmptyGroupIdentities(t *testing.T) {
	ctx := Context{"kind": "audio"}

	tests := []struct {
		name  string
		group RuleGroup
		want  bool
	}{
		{"empty all is true", RuleGroup{Match: MatchAll}, true},
		{"empty any is false", RuleGroup{Match: MatchAny}, false},
		{"empty all negated", RuleGroup{Match: MatchAll, Negate: true}, false},
		{"empty any negated", RuleGroup{Match: MatchAny, Negate: true}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.group.Matches(ctx, evalNow); got != tc.want {
				t.Errorf("Matches() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestGroupCombinators(t *testing.T) {
	ctx := Context{"kind": "audio", "rating": 5}

	isAudio := Rule{Field: "kind", Op: OpEq, Value: "audio"}
	isVideo := Rule{Field: "kind", Op: OpEq, Value: "video"}
	topRated := Rule{Field: "rating", Op: OpGe, Value: 5}

	tests := []struct {
		name  string
		group RuleGroup
		want  bool
	}{
		{"all both hold", RuleGroup{Match: MatchAll, Rules: []Rule{isAudio, topRated}}, true},
		{"all one fails", RuleGroup{Match: MatchAll, Rules: []Rule{isAudio, isVideo}}, false},
		{"any one holds", RuleGroup{Match: MatchAny, Rules: []Rule{isVideo, topRated}}, true},
		{"any none hold", RuleGroup{Match: MatchAny, Rules: []Rule{isVideo, {Field: "rating", Op: OpLt, Value: 3}}}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.group.Matches(ctx, evalNow); got != tc.want {
				t.Errorf("Matches() = %v, want %v", got, tc.want)
			}
		})
	}
}

// An OR of two AND blocks, three levels deep, matches when either
// block holds in full.
func TestNestedAnyOfAlls(t *testing.T) {
	tree := RuleGroup{
		Match: MatchAny,
		Groups: []RuleGroup{
			{Match: MatchAll, Rules: []Rule{
				{Field: "kind", Op: OpEq, Value: "audio"},
				{Field: "rating", Op: OpGe, Value: 4},
			}},
			{Match: MatchAll, Rules: []Rule{
				{Field: "kind", Op: OpEq, Value: "video"},
				{Field: "tags", Op: OpHasTag, Value: "keeper"},
			}},
		},
	}

	tests := []struct {
		name string
		ctx  Context
		want bool
	}{
		{"first block", Context{"kind": "audio", "rating": 5, "tags": []string{}}, true},
		{"second block", Context{"kind": "video", "rating": 1, "tags": []string{"Keeper"}}, true},
		{"neither in full", Context{"kind": "audio", "rating": 2, "tags": []string{"keeper"}}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tree.Matches(tc.ctx, evalNow); got != tc.want {
				t.Errorf("Matches() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestGroupNegateWrapsWholeResult(t *testing.T) {
	inner := RuleGroup{Match: MatchAll, Rules: []Rule{
		{Field: "kind", Op: OpEq, Value: "audio"},
	}}
	wrapped := RuleGroup{Match: MatchAll, Negate: true, Groups: []RuleGroup{inner}}

	ctx := Context{"kind": "audio"}
	if wrapped.Matches(ctx, evalNow) {
		t.Error("negated wrapper should invert a matching subtree")
	}

	doubleWrapped := RuleGroup{Match: MatchAll, Negate: true, Groups: []RuleGroup{wrapped}}
	if !doubleWrapped.Matches(ctx, evalNow) {
		t.Error("double negation should restore the original result")
	}
}

func TestGroupValidate(t *testing.T) {
	t.Run("unknown match mode", func(t *testing.T) {
		g := RuleGroup{Match: "some"}
		if err := g.Validate(); !errors.Is(err, ErrInvalidMatch) {
			t.Errorf("Validate() = %v, want ErrInvalidMatch", err)
		}
	})

	t.Run("bad nested operator", func(t *testing.T) {
		g := RuleGroup{Match: MatchAll, Groups: []RuleGroup{
			{Match: MatchAny, Rules: []Rule{{Field: "kind", Op: "like", Value: "x"}}},
		}}
		if err := g.Validate(); !errors.Is(err, ErrUnsupportedOp) {
			t.Errorf("Validate() = %v, want ErrUnsupportedOp", err)
		}
	})

	t.Run("valid tree", func(t *testing.T) {
		g := RuleGroup{Match: MatchAll, Rules: []Rule{
			{Field: "rating", Op: OpGe, Value: 4},
		}, Groups: []RuleGroup{{Match: MatchAny}}}
		if err := g.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
	})
}
