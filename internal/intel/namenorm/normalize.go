// Package namenorm canonicalizes hotel and location names across Arabic and
// Latin scripts and scores name similarity for duplicate detection.
package namenorm

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Arabic to Latin transliteration. Characters outside the map pass through.
var arabicToLatin = map[rune]string{
	// Letters
	'ا': "a", 'أ': "a", 'إ': "i", 'آ': "aa",
	'ب': "b", 'ت': "t", 'ث': "th",
	'ج': "j", 'ح': "h", 'خ': "kh",
	'د': "d", 'ذ': "dh",
	'ر': "r", 'ز': "z",
	'س': "s", 'ش': "sh",
	'ص': "s", 'ض': "d",
	'ط': "t", 'ظ': "z",
	'ع': "a", 'غ': "gh",
	'ف': "f", 'ق': "q",
	'ك': "k", 'ل': "l",
	'م': "m", 'ن': "n",
	'ه': "h", 'و': "w",
	'ي': "y", 'ى': "a",
	'ة': "h", 'ء': "a",
	'ؤ': "w", 'ئ': "y",
	// Eastern Arabic numerals
	'٠': "0", '١': "1", '٢': "2", '٣': "3", '٤': "4",
	'٥': "5", '٦': "6", '٧': "7", '٨': "8", '٩': "9",
}

// Ordered literal replacements. Later rules see the output of earlier ones,
// so a rule like "al " can match inside already-substituted text. That
// word-boundary-unsafe behavior is intentional and load-bearing for matching.
var commonReplacements = [][2]string{
	// Articles
	{"al ", ""}, {"el ", ""}, {"the ", ""},
	{"al-", ""}, {"el-", ""},
	// City synonyms
	{"makkah", "mecca"}, {"mekkah", "mecca"}, {"mekah", "mecca"},
	{"madinah", "medina"}, {"medinah", "medina"}, {"madinah al munawwarah", "medina"},
	{"jedda", "jeddah"},
	// Transliterated Arabic forms
	{"hyltwn", "hilton"}, {"fndq", ""}, {"mkh", ""},
	// Noise words
	{"masjid", ""}, {"haram", ""}, {"nabawi", ""},
	{"hotel", ""}, {"resort", ""}, {"suites", "suite"},
	{"tower", ""}, {"towers", ""},
	// Connectors
	{"and", ""}, {"&", " "}, {"'s", ""},
}

var (
	nonAlnumRE   = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespaceRE = regexp.MustCompile(`\s+`)
	digitsRE     = regexp.MustCompile(`\d+`)
)

func isArabicDiacritic(r rune) bool {
	return (r >= 0x064B && r <= 0x065F) || r == 0x0670
}

func transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if lat, ok := arabicToLatin[r]; ok {
			b.WriteString(lat)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize canonicalizes a hotel/location name for matching. Total: empty
// input yields empty output, nothing fails. The result is for comparison
// only, never for display.
func Normalize(name string) string {
	if name == "" {
		return ""
	}

	s := strings.ToLower(strings.TrimSpace(name))

	// Strip tashkil, then transliterate the remaining Arabic letters.
	var stripped strings.Builder
	stripped.Grow(len(s))
	for _, r := range s {
		if !isArabicDiacritic(r) {
			stripped.WriteRune(r)
		}
	}
	s = transliterate(stripped.String())

	// NFKD fold, then drop every non-ASCII byte.
	s = norm.NFKD.String(s)
	var ascii strings.Builder
	ascii.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] < 0x80 {
			ascii.WriteByte(s[i])
		}
	}
	s = ascii.String()

	s = strings.ReplaceAll(s, "`", "'")

	for _, rep := range commonReplacements {
		s = strings.ReplaceAll(s, rep[0], rep[1])
	}

	s = nonAlnumRE.ReplaceAllString(s, " ")
	s = whitespaceRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// AltForms derives alternate normalized variants of a name: the base form,
// no-space, hyphenated, first word, first two words, and digits-stripped.
// Variants shorter than 3 characters are dropped.
func AltForms(name string) []string {
	base := Normalize(name)
	if base == "" {
		return nil
	}

	set := map[string]struct{}{
		base: {},
		strings.ReplaceAll(base, " ", ""):  {},
		strings.ReplaceAll(base, " ", "-"): {},
	}

	words := strings.Fields(base)
	if len(words) > 0 {
		set[words[0]] = struct{}{}
	}
	if len(words) >= 2 {
		set[strings.Join(words[:2], " ")] = struct{}{}
	}
	if noNums := strings.TrimSpace(digitsRE.ReplaceAllString(base, "")); noNums != "" {
		set[noNums] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for v := range set {
		if len(v) > 2 {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// Similarity scores two raw names in [0,1]: 1.0 on equal canonical forms,
// 0.9 when one contains the other, else an edit-similarity ratio. Symmetric.
func Similarity(a, b string) float64 {
	n1 := Normalize(a)
	n2 := Normalize(b)

	if n1 == "" || n2 == "" {
		return 0
	}
	if n1 == n2 {
		return 1.0
	}
	if strings.Contains(n1, n2) || strings.Contains(n2, n1) {
		return 0.9
	}
	return Ratio(n1, n2)
}

// Match is one candidate hit from MatchCandidates.
type Match struct {
	Name  string
	Score float64
}

// MatchCandidates ranks candidates against a query. A candidate whose
// alternate-form set intersects the query's scores a fixed 0.95; otherwise it
// qualifies when its similarity meets the threshold. Sorted by score
// descending.
func MatchCandidates(query string, candidates []string, threshold float64) []Match {
	queryAlts := make(map[string]struct{})
	for _, v := range AltForms(query) {
		queryAlts[v] = struct{}{}
	}

	var results []Match
	for _, cand := range candidates {
		hit := false
		for _, v := range AltForms(cand) {
			if _, ok := queryAlts[v]; ok {
				hit = true
				break
			}
		}
		if hit {
			results = append(results, Match{Name: cand, Score: 0.95})
			continue
		}
		if score := Similarity(query, cand); score >= threshold {
			results = append(results, Match{Name: cand, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results
}
