package vehicle

import (
	"regexp"
	"strings"
)

// enginePattern matches engine displacement markers such as "1.6" or "2.0"
// that appear inside commercial model names but never in listing URLs.
var enginePattern = regexp.MustCompile(`\b\d\.\d\b`)

var multiSeparator = regexp.MustCompile(`_+`)

// trimTokens are trim-level and body-style suffixes that dealers append to
// the base model name.  They are dropped so that "Spark GT LT 1.2" and
// "Spark GT" normalize to the same slug.
var trimTokens = map[string]struct{}{
	"ls": {}, "lt": {}, "ltz": {}, "se": {}, "ex": {}, "dx": {},
	"gl": {}, "gls": {}, "ii": {}, "iii": {}, "iv": {},
	"cargo": {}, "box": {}, "base": {}, "full": {},
	"limited": {}, "sport": {}, "premium": {},
}

// NormalizeModelSlug reduces a commercial model name to a short URL-safe
// slug used when building marketplace search URLs.  The transformation is
// idempotent: feeding a slug back in returns it unchanged.
func NormalizeModelSlug(model string) string {
	s := strings.ToLower(strings.TrimSpace(model))
	if s == "" {
		return ""
	}

	s = enginePattern.ReplaceAllString(s, " ")

	fields := strings.Fields(strings.ReplaceAll(s, "-", " "))
	kept := make([]string, 0, 2)
	for _, f := range fields {
		f = strings.Trim(f, "_")
		if f == "" {
			continue
		}
		if _, drop := trimTokens[f]; drop {
			continue
		}
		kept = append(kept, f)
		if len(kept) == 2 {
			break
		}
	}
	if len(kept) == 0 {
		return ""
	}

	slug := strings.Join(kept, "_")
	slug = multiSeparator.ReplaceAllString(slug, "_")
	return strings.Trim(slug, "_")
}
