package repository

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnumRE         = regexp.MustCompile(`[^a-z0-9]+`)
	tournamentPrefixRE = regexp.MustCompile(`^tournament_(\d+)_`)
)

// slugifyLocation lowercases, strips accents via NFKD decomposition, and
// collapses every run of non-alphanumeric runes into a single
// underscore, trimming leading/trailing underscores.
func slugifyLocation(location string) string {
	lowered := strings.ToLower(strings.TrimSpace(location))
	stripAccents := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripAccents, lowered)
	if err != nil {
		folded = lowered
	}
	folded = nonAlnumRE.ReplaceAllString(folded, "_")
	return strings.Trim(folded, "_")
}

// generateTournamentName derives the next "tournament_{n}_{slug}_{date}"
// repository name, scanning existingNames for the highest prior n.
func generateTournamentName(location string, existingNames []string) string {
	slug := slugifyLocation(location)
	datePart := time.Now().Format("2006-01-02")

	maxID := 0
	for _, name := range existingNames {
		m := tournamentPrefixRE.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		if v, err := strconv.Atoi(m[1]); err == nil && v > maxID {
			maxID = v
		}
	}
	return fmt.Sprintf("tournament_%d_%s_%s", maxID+1, slug, datePart)
}
