package gemini

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// ExtractJSONBlock returns the first balanced top-level {...} block in text.
// Models wrap their JSON in prose and markdown fences; this scan tolerates
// both.  Braces inside JSON strings do not count toward nesting.
func ExtractJSONBlock(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// flexInt decodes a JSON value that may be a number, a numeric string or a
// Chilean-formatted money string such as "$15.000.000".
type flexInt int

var nonDigit = regexp.MustCompile(`[^\d]`)

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = 0
		return nil
	}
	if s[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	digits := nonDigit.ReplaceAllString(s, "")
	if digits == "" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

// valuationReply mirrors the JSON contract the valuation prompt demands.
type valuationReply struct {
	MinPrice        flexInt        `json:"minPrice"`
	MaxPrice        flexInt        `json:"maxPrice"`
	AvgPrice        flexInt        `json:"avgPrice"`
	Currency        string         `json:"currency"`
	MarketAnalysis  string         `json:"marketAnalysis"`
	ConfidenceScore float64        `json:"confidenceScore"`
	FoundListings   []replyListing `json:"foundListings"`
}

type replyListing struct {
	Title string  `json:"title"`
	URL   string  `json:"url"`
	Price flexInt `json:"price"`
}

// plateReply mirrors the JSON contract of the plate lookup prompt.
type plateReply struct {
	Found bool   `json:"found"`
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  string `json:"year"`
}

func parseValuationReply(text string) (valuationReply, error) {
	block, ok := ExtractJSONBlock(text)
	if !ok {
		block = "{}"
	}
	var reply valuationReply
	err := json.Unmarshal([]byte(block), &reply)
	return reply, err
}

// chileanDomainMarkers identify URLs pointing at Chilean marketplaces.
var chileanDomainMarkers = []string{
	".cl", "mercadolibre", "chileautos", "yapo", "kavak", "autofact", "autocosmos",
}

func isChileanListing(uri string) bool {
	for _, marker := range chileanDomainMarkers {
		if strings.Contains(uri, marker) {
			return true
		}
	}
	return false
}

// UnmarshalJSON tolerates the year arriving as either a string or a number.
func (p *plateReply) UnmarshalJSON(data []byte) error {
	var raw struct {
		Found bool            `json:"found"`
		Make  string          `json:"make"`
		Model string          `json:"model"`
		Year  json.RawMessage `json:"year"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Found = raw.Found
	p.Make = raw.Make
	p.Model = raw.Model
	if len(raw.Year) > 0 && string(raw.Year) != "null" {
		var s string
		if err := json.Unmarshal(raw.Year, &s); err == nil {
			p.Year = s
		} else {
			var n int
			if err := json.Unmarshal(raw.Year, &n); err == nil {
				p.Year = strconv.Itoa(n)
			}
		}
	}
	return nil
}
