package smartplaylist

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"media-library/internal/metrics"
)

// Op is a rule comparison operator.
type Op string

// Supported operators. The serialized form is the constant value, so
// hand-edited playlist files keep working.
const (
	OpEq           Op = "=="
	OpNe           Op = "!="
	OpGe           Op = ">="
	OpLe           Op = "<="
	OpGt           Op = ">"
	OpLt           Op = "<"
	OpBetween      Op = "between"
	OpContains     Op = "contains"
	OpNotContains  Op = "not_contains"
	OpIContains    Op = "icontains"
	OpIn           Op = "in"
	OpStartsWith   Op = "startswith"
	OpEndsWith     Op = "endswith"
	OpHasTag       Op = "has_tag"
	OpRegex        Op = "regex"
	OpWithinDays   Op = "within_days"
	OpWithinHours  Op = "within_hours"
	OpWithinWeeks  Op = "within_weeks"
	OpWithinMonths Op = "within_months"
)

// Temporal window sizes in seconds. A month is approximated as
// 30.4 days (2,626,560 seconds) so rule results stay deterministic.
const (
	secondsPerHour  = 3600
	secondsPerDay   = 86400
	secondsPerWeek  = 7 * secondsPerDay
	secondsPerMonth = 2626560
)

var supportedOps = map[Op]bool{
	OpEq: true, OpNe: true, OpGe: true, OpLe: true, OpGt: true, OpLt: true,
	OpBetween: true, OpContains: true, OpNotContains: true, OpIContains: true,
	OpIn: true, OpStartsWith: true, OpEndsWith: true, OpHasTag: true,
	OpRegex:      true,
	OpWithinDays: true, OpWithinHours: true, OpWithinWeeks: true, OpWithinMonths: true,
}

// Supported reports whether op is a known operator.
func (op Op) Supported() bool {
	return supportedOps[op]
}

// Context is the flat field-value mapping a rule tree evaluates
// against. It is built per item, never mutated, and discarded after
// the predicate runs.
type Context map[string]interface{}

// Outcome is the typed result of evaluating one rule, before the
// rule's negate flag is applied. The non-evaluable outcomes all count
// as "did not match" so a broken rule can never crash an evaluation,
// but tests and diagnostics can still see why a rule failed.
type Outcome int

const (
	// OutcomeMatched means the operator compared and matched.
	OutcomeMatched Outcome = iota
	// OutcomeNotMatched means the operator compared and did not match.
	OutcomeNotMatched
	// OutcomeMissingField means the context had no usable value.
	OutcomeMissingField
	// OutcomeTypeMismatch means the operands could not be compared.
	OutcomeTypeMismatch
	// OutcomeUnsupportedOp means the rule names an unknown operator.
	OutcomeUnsupportedOp
	// OutcomeBadValue means the rule's own value is malformed
	// (e.g. a between without exactly two bounds).
	OutcomeBadValue
)

// Matched reports whether the outcome is a positive match.
func (o Outcome) Matched() bool { return o == OutcomeMatched }

// Evaluable reports whether the operator actually ran a comparison.
func (o Outcome) Evaluable() bool {
	return o == OutcomeMatched || o == OutcomeNotMatched
}

// String returns the metric label for an outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeMatched:
		return "matched"
	case OutcomeNotMatched:
		return "not_matched"
	case OutcomeMissingField:
		return "missing_field"
	case OutcomeTypeMismatch:
		return "type_mismatch"
	case OutcomeUnsupportedOp:
		return "unsupported_op"
	case OutcomeBadValue:
		return "bad_value"
	default:
		return fmt.Sprintf("unknown(%d)", int(o))
	}
}

// Rule is a single predicate over one context field.
type Rule struct {
	Field  string      `json:"field"`
	Op     Op          `json:"op"`
	Value  interface{} `json:"value"`
	Negate bool        `json:"negate,omitempty"`
}

// Validate rejects rules whose operator is unknown. Unsupported
// operators must never silently pass, so they are caught here at
// construction/load time as well as during evaluation.
func (r Rule) Validate() error {
	if !r.Op.Supported() {
		return fmt.Errorf("%w: %q", ErrUnsupportedOp, r.Op)
	}
	return nil
}

// Matches evaluates the rule against ctx at the given instant and
// applies the negate flag. Non-evaluable outcomes count as false
// before negation.
func (r Rule) Matches(ctx Context, now time.Time) bool {
	outcome := r.Evaluate(ctx, now)
	if !outcome.Evaluable() {
		metrics.RuleFailuresTotal.WithLabelValues(outcome.String()).Inc()
	}
	matched := outcome.Matched()
	if r.Negate {
		return !matched
	}
	return matched
}

// Evaluate runs the operator and reports the pre-negation outcome.
func (r Rule) Evaluate(ctx Context, now time.Time) Outcome {
	if !r.Op.Supported() {
		return OutcomeUnsupportedOp
	}

	left, present := ctx[r.Field]
	if !present || left == nil {
		return OutcomeMissingField
	}

	switch r.Op {
	case OpEq:
		return boolOutcome(looseEqual(left, r.Value))
	case OpNe:
		return boolOutcome(!looseEqual(left, r.Value))
	case OpGe, OpLe, OpGt, OpLt:
		return r.evaluateOrdering(left)
	case OpBetween:
		return r.evaluateBetween(left)
	case OpContains:
		return r.evaluateContains(left)
	case OpNotContains:
		out := r.evaluateContains(left)
		if !out.Evaluable() {
			return out
		}
		return boolOutcome(!out.Matched())
	case OpIContains:
		return boolOutcome(strings.Contains(
			strings.ToLower(stringify(left)),
			strings.ToLower(stringify(r.Value)),
		))
	case OpIn:
		return r.evaluateIn(left)
	case OpStartsWith:
		return boolOutcome(strings.HasPrefix(
			strings.ToLower(stringify(left)),
			strings.ToLower(stringify(r.Value)),
		))
	case OpEndsWith:
		return boolOutcome(strings.HasSuffix(
			strings.ToLower(stringify(left)),
			strings.ToLower(stringify(r.Value)),
		))
	case OpHasTag:
		return r.evaluateHasTag(left)
	case OpRegex:
		return r.evaluateRegex(left)
	case OpWithinDays:
		return r.evaluateWithin(left, now, secondsPerDay)
	case OpWithinHours:
		return r.evaluateWithin(left, now, secondsPerHour)
	case OpWithinWeeks:
		return r.evaluateWithin(left, now, secondsPerWeek)
	case OpWithinMonths:
		return r.evaluateWithin(left, now, secondsPerMonth)
	default:
		return OutcomeUnsupportedOp
	}
}

func (r Rule) evaluateOrdering(left interface{}) Outcome {
	a, ok := numeric(left)
	if !ok {
		return OutcomeTypeMismatch
	}
	b, ok := numeric(r.Value)
	if !ok {
		return OutcomeBadValue
	}
	switch r.Op {
	case OpGe:
		return boolOutcome(a >= b)
	case OpLe:
		return boolOutcome(a <= b)
	case OpGt:
		return boolOutcome(a > b)
	default: // OpLt
		return boolOutcome(a < b)
	}
}

// evaluateBetween checks low <= field <= high, inclusive at both
// bounds.
func (r Rule) evaluateBetween(left interface{}) Outcome {
	bounds := asSlice(r.Value)
	if len(bounds) != 2 {
		return OutcomeBadValue
	}
	low, okLow := numeric(bounds[0])
	high, okHigh := numeric(bounds[1])
	if !okLow || !okHigh {
		return OutcomeBadValue
	}
	a, ok := numeric(left)
	if !ok {
		return OutcomeTypeMismatch
	}
	return boolOutcome(low <= a && a <= high)
}

// evaluateContains treats collection fields as membership (string-cast,
// case-sensitive) and scalar fields as case-sensitive substring.
func (r Rule) evaluateContains(left interface{}) Outcome {
	if items := asSlice(left); items != nil {
		want := stringify(r.Value)
		for _, item := range items {
			if stringify(item) == want {
				return OutcomeMatched
			}
		}
		return OutcomeNotMatched
	}
	return boolOutcome(strings.Contains(stringify(left), stringify(r.Value)))
}

func (r Rule) evaluateIn(left interface{}) Outcome {
	items := asSlice(r.Value)
	if items == nil {
		return OutcomeBadValue
	}
	have := stringify(left)
	for _, item := range items {
		if stringify(item) == have {
			return OutcomeMatched
		}
	}
	return OutcomeNotMatched
}

func (r Rule) evaluateHasTag(left interface{}) Outcome {
	items := asSlice(left)
	if items == nil {
		return OutcomeTypeMismatch
	}
	want := strings.ToLower(stringify(r.Value))
	for _, item := range items {
		if strings.ToLower(stringify(item)) == want {
			return OutcomeMatched
		}
	}
	return OutcomeNotMatched
}

func (r Rule) evaluateRegex(left interface{}) Outcome {
	pattern, ok := r.Value.(string)
	if !ok {
		return OutcomeBadValue
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return OutcomeBadValue
	}
	return boolOutcome(re.MatchString(stringify(left)))
}

// evaluateWithin checks (now - field) <= value*unit. The field is an
// epoch-seconds timestamp; values that cannot plausibly be an epoch
// (below ~1970-04-26) are treated as missing. Future timestamps count
// as within any window.
func (r Rule) evaluateWithin(left interface{}, now time.Time, unitSeconds float64) Outcome {
	window, ok := numeric(r.Value)
	if !ok || window < 0 {
		return OutcomeBadValue
	}
	epoch, ok := numeric(left)
	if !ok {
		return OutcomeTypeMismatch
	}
	if epoch <= 10_000_000 {
		return OutcomeMissingField
	}
	delta := float64(now.Unix()) - epoch
	return boolOutcome(delta <= window*unitSeconds)
}

func boolOutcome(matched bool) Outcome {
	if matched {
		return OutcomeMatched
	}
	return OutcomeNotMatched
}

// numeric coerces a value to float64. Numeric strings are accepted so
// hand-edited playlists with quoted numbers keep working.
func numeric(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// looseEqual compares two scalars: numerically when both sides coerce
// to numbers, otherwise by string form.
func looseEqual(a, b interface{}) bool {
	fa, okA := numeric(a)
	fb, okB := numeric(b)
	if okA && okB {
		return fa == fb
	}
	return stringify(a) == stringify(b)
}

// asSlice normalizes the collection shapes a context or a decoded JSON
// value can carry. Returns nil for scalars.
func asSlice(v interface{}) []interface{} {
	switch s := v.(type) {
	case []interface{}:
		return s
	case []string:
		out := make([]interface{}, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out
	case []int:
		out := make([]interface{}, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out
	case []float64:
		out := make([]interface{}, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out
	default:
		return nil
	}
}

func stringify(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}
