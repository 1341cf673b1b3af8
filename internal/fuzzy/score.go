// Package fuzzy scores string similarity on a 0-100 scale.
//
// Scores are built from rune-level Levenshtein distance. WRatio combines plain,
// partial and token-based ratios so that case, punctuation, accents and word
// order do not matter much when matching user input against place names.
package fuzzy

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Match is the best candidate found by ExtractOne.
type Match struct {
	Choice string
	Score  int
	Index  int
}

// Process normalizes s for comparison: accents are stripped, case is folded,
// every non-alphanumeric rune becomes a space and runs of spaces collapse.
func Process(s string) string {
	// Transformers and casers carry state, so build them per call.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if t, _, err := transform.String(stripMarks, s); err == nil {
		s = t
	}
	s = cases.Fold().String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Ratio compares a and b as given. Empty input scores 0.
func Ratio(a, b string) int {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(d)/float64(max(la, lb)))))
}

// PartialRatio scores the shorter string against its best-matching window of
// the longer one.
func PartialRatio(a, b string) int {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}
	if len(short) == len(long) {
		return Ratio(a, b)
	}

	s := string(short)
	best := 0
	for i := 0; i+len(short) <= len(long); i++ {
		if r := Ratio(s, string(long[i:i+len(short)])); r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

// TokenSortRatio compares a and b after sorting their words.
func TokenSortRatio(a, b string) int {
	return Ratio(sortTokens(a), sortTokens(b))
}

// TokenSetRatio compares the shared words of a and b against each side's
// remainder, so extra words on one side cost little.
func TokenSetRatio(a, b string) int {
	return tokenSet(a, b, Ratio)
}

// WRatio is the weighted score used for matching free text. Both inputs are
// run through Process first.
func WRatio(a, b string) int {
	p1, p2 := Process(a), Process(b)
	if p1 == "" || p2 == "" {
		return 0
	}

	base := float64(Ratio(p1, p2))
	l1, l2 := len([]rune(p1)), len([]rune(p2))
	lenRatio := float64(max(l1, l2)) / float64(min(l1, l2))

	if lenRatio < 1.5 {
		tsor := 0.95 * float64(TokenSortRatio(p1, p2))
		tser := 0.95 * float64(TokenSetRatio(p1, p2))
		return int(math.Round(max(base, tsor, tser)))
	}

	scale := 0.9
	if lenRatio > 8 {
		scale = 0.6
	}
	partial := scale * float64(PartialRatio(p1, p2))
	ptsor := 0.95 * scale * float64(PartialRatio(sortTokens(p1), sortTokens(p2)))
	ptser := 0.95 * scale * float64(tokenSet(p1, p2, PartialRatio))
	return int(math.Round(max(base, partial, ptsor, ptser)))
}

// ExtractOne scores query against every choice with WRatio. The first choice
// with the highest score wins. ok is false when choices is empty.
func ExtractOne(query string, choices []string) (m Match, ok bool) {
	if len(choices) == 0 {
		return Match{}, false
	}

	m = Match{Index: -1, Score: -1}
	for i, c := range choices {
		if s := WRatio(query, c); s > m.Score {
			m = Match{Choice: c, Score: s, Index: i}
		}
	}
	return m, true
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(a, b string, ratio func(string, string) int) int {
	setA, setB := tokenSetOf(a), tokenSetOf(b)

	var inter, onlyA, onlyB []string
	for t := range setA {
		if setB[t] {
			inter = append(inter, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range setB {
		if !setA[t] {
			onlyB = append(onlyB, t)
		}
	}
	sort.Strings(inter)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	common := strings.Join(inter, " ")
	combinedA := strings.TrimSpace(common + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(common + " " + strings.Join(onlyB, " "))

	return max(
		ratio(common, combinedA),
		ratio(common, combinedB),
		ratio(combinedA, combinedB),
	)
}

func tokenSetOf(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range strings.Fields(s) {
		set[t] = true
	}
	return set
}
