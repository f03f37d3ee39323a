package sheet

import (
	"regexp"
	"strings"
)

var (
	repeatedCommaRe = regexp.MustCompile(`(,\s*)+`)
	multiSpaceRe    = regexp.MustCompile(`\s{2,}`)
)

// JoinAddressFragments reconstructs an address line from the consecutive
// cell fragments an export splits it across. Empty and "NA" fragments are
// dropped, the rest are comma-joined, repeated commas and runs of whitespace
// collapse, and a trailing comma is stripped.
func JoinAddressFragments(fragments []string) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		f = strings.TrimSpace(f)
		if f == "" || strings.EqualFold(f, "NA") {
			continue
		}
		parts = append(parts, f)
	}
	joined := strings.Join(parts, ", ")
	joined = repeatedCommaRe.ReplaceAllString(joined, ", ")
	joined = multiSpaceRe.ReplaceAllString(joined, " ")
	joined = strings.TrimSuffix(strings.TrimSpace(joined), ",")
	return strings.TrimSpace(joined)
}
