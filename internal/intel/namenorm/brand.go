package namenorm

import (
	"regexp"
	"strconv"
	"strings"
)

// Chain brand aliases, checked against the lowercased raw name.
var hotelChains = []struct {
	chain   string
	aliases []string
}{
	{"hilton", []string{"hilton", "doubletree", "embassy suites", "hampton", "waldorf"}},
	{"marriott", []string{"marriott", "sheraton", "westin", "ritz carlton", "courtyard", "jw"}},
	{"accor", []string{"accor", "sofitel", "pullman", "novotel", "ibis", "mercure", "swissotel"}},
	{"ihg", []string{"ihg", "intercontinental", "crowne plaza", "holiday inn", "indigo"}},
	{"hyatt", []string{"hyatt", "grand hyatt", "park hyatt", "andaz"}},
	{"rotana", []string{"rotana", "rayhaan", "arjaan"}},
	{"raffles", []string{"raffles", "fairmont"}},
}

// IdentifyChain returns the hotel chain a name belongs to, or "".
func IdentifyChain(name string) string {
	lower := strings.ToLower(name)
	for _, c := range hotelChains {
		for _, alias := range c.aliases {
			if strings.Contains(lower, alias) {
				return c.chain
			}
		}
	}
	return ""
}

var starPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d)\s*star`),
	regexp.MustCompile(`(\d)-star`),
	regexp.MustCompile(`(\d)\*`),
	regexp.MustCompile(`bintang\s*(\d)`),
}

// ExtractStars pulls a 1-5 star rating out of a raw name ("5 star", "5*",
// "bintang 5"), returning 0 when none is present.
func ExtractStars(name string) int {
	lower := strings.ToLower(name)
	for _, re := range starPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 && n <= 5 {
				return n
			}
		}
	}
	return 0
}

var cityCanonical = map[string]string{
	"makkah": "MAKKAH", "mecca": "MAKKAH", "mekkah": "MAKKAH", "mekah": "MAKKAH",
	"madinah": "MADINAH", "medina": "MADINAH", "medinah": "MADINAH",
	"jeddah": "JEDDAH", "jedda": "JEDDAH", "jidda": "JEDDAH",
}

// NormalizeCity folds common city spellings onto the canonical uppercase name.
func NormalizeCity(city string) string {
	if v, ok := cityCanonical[strings.ToLower(strings.TrimSpace(city))]; ok {
		return v
	}
	return strings.ToUpper(city)
}

// FormatDisplayName title-cases a raw name for presentation, appending the
// city when it is not already part of the name.
func FormatDisplayName(name, city string) string {
	display := strings.Title(strings.ToLower(strings.TrimSpace(name))) //nolint:staticcheck

	for _, rep := range [][2]string{
		{"'S", "'s"}, {" And ", " and "}, {" Of ", " of "}, {" The ", " the "}, {"Al ", "Al-"},
	} {
		display = strings.ReplaceAll(display, rep[0], rep[1])
	}

	if city != "" {
		cityNorm := NormalizeCity(city)
		if !strings.Contains(strings.ToUpper(display), cityNorm) {
			display += ", " + strings.Title(strings.ToLower(cityNorm)) //nolint:staticcheck
		}
	}
	return display
}
