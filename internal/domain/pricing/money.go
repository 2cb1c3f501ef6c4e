// Package pricing holds market price discovery and the commercial offer
// formulas.  All amounts are integer Chilean pesos.
package pricing

import (
	"regexp"
	"strconv"
	"strings"
)

// clpPattern matches Chilean-format money strings such as "$ 8.990.000":
// a dollar sign followed by dot-separated thousands groups.  Amounts written
// without thousands separators are ignored on purpose, they are usually
// years, mileages or ad IDs.
var clpPattern = regexp.MustCompile(`\$\s*(\d{1,3}(?:\.\d{3})+)`)

// Band is the plausibility window for a used-car price.  Amounts outside it
// are treated as page noise.
type Band struct {
	Min int
	Max int
}

// Contains reports whether amount falls inside the band, inclusive.
func (b Band) Contains(amount int) bool {
	return amount >= b.Min && amount <= b.Max
}

// ExtractAmounts scans free text for Chilean-formatted prices and returns
// the plausible ones, deduplicated, in order of first appearance.
func ExtractAmounts(text string, band Band) []int {
	matches := clpPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[int]struct{}, len(matches))
	amounts := make([]int, 0, len(matches))
	for _, m := range matches {
		raw := strings.ReplaceAll(m[1], ".", "")
		amount, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		if !band.Contains(amount) {
			continue
		}
		if _, dup := seen[amount]; dup {
			continue
		}
		seen[amount] = struct{}{}
		amounts = append(amounts, amount)
	}
	return amounts
}
