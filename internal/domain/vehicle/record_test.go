package vehicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePlate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abcd12", "ABCD12"},
		{"  Hjkl89 ", "HJKL89"},
		{"BBCL23", "BBCL23"},
		{"  ", ""},
		{"gh-jk-12", "GH-JK-12"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePlate(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeModelSlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple model", "Corolla", "corolla"},
		{"two words kept", "Grand Vitara", "grand_vitara"},
		{"third word dropped", "grand vitara glx", "grand_vitara"},
		{"engine size stripped", "Spark GT 1.2", "spark_gt"},
		{"trim token dropped", "Spark LT", "spark"},
		{"multiple trim tokens", "Accent base full", "accent"},
		{"hyphen becomes separator", "CX-5", "cx_5"},
		{"mixed case and spacing", "  YARIS   Sport ", "yaris"},
		{"roman numeral trim", "Montero II", "montero"},
		{"cargo variant", "Berlingo Cargo", "berlingo"},
		{"empty", "", ""},
		{"only trim tokens", "LS LT", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeModelSlug(tt.in))
		})
	}
}

func TestNormalizeModelSlugIdempotent(t *testing.T) {
	inputs := []string{"Grand Vitara GLX", "Spark GT 1.2", "CX-5", "corolla"}
	for _, in := range inputs {
		once := NormalizeModelSlug(in)
		assert.Equal(t, once, NormalizeModelSlug(once), "slug for %q must be stable", in)
	}
}
