package enrichment

import "strings"

// Ranking weights. Provider confidence dominates; title similarity and
// year proximity refine the order among close candidates.
const (
	weightProvider = 0.6
	weightTitle    = 0.3
	weightYear     = 0.1
)

// NormalizeTitle lower-cases text and collapses internal whitespace so
// similarity comparison ignores formatting noise.
func NormalizeTitle(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// SimpleRatio computes a crude token-overlap similarity in [0, 1]:
// the Jaccard index of the two normalized word sets.
func SimpleRatio(a, b string) float64 {
	na, nb := NormalizeTitle(a), NormalizeTitle(b)
	if na == "" || nb == "" {
		return 0
	}

	sa := make(map[string]struct{})
	for _, w := range strings.Fields(na) {
		sa[w] = struct{}{}
	}
	sb := make(map[string]struct{})
	for _, w := range strings.Fields(nb) {
		sb[w] = struct{}{}
	}

	inter := 0
	for w := range sa {
		if _, ok := sb[w]; ok {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// YearProximity scores how close a candidate's release year is to the
// target: exact 1.0, off by one 0.7, off by two 0.4, otherwise 0.
// Unknown years on either side score 0.
func YearProximity(target, candidate *int) float64 {
	if target == nil || candidate == nil || *target == 0 || *candidate == 0 {
		return 0
	}
	diff := *target - *candidate
	if diff < 0 {
		diff = -diff
	}
	switch diff {
	case 0:
		return 1.0
	case 1:
		return 0.7
	case 2:
		return 0.4
	default:
		return 0
	}
}

// AggregateScore combines provider confidence with title and year
// scores, all assumed to be in [0, 1].
func AggregateScore(providerScore, titleScore, yearScore float64) float64 {
	return providerScore*weightProvider + titleScore*weightTitle + yearScore*weightYear
}
