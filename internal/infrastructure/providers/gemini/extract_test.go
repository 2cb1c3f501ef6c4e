package gemini

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONBlock(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{
			name:   "bare object",
			text:   `{"a":1}`,
			want:   `{"a":1}`,
			wantOK: true,
		},
		{
			name:   "object inside prose",
			text:   "Here is the valuation:\n{\"avgPrice\": 9000000}\nLet me know if you need more.",
			want:   `{"avgPrice": 9000000}`,
			wantOK: true,
		},
		{
			name:   "markdown fence",
			text:   "```json\n{\"a\": {\"b\": 2}}\n```",
			want:   `{"a": {"b": 2}}`,
			wantOK: true,
		},
		{
			name:   "nested objects balanced",
			text:   `{"listings": [{"title": "x"}]} trailing {"other": 1}`,
			want:   `{"listings": [{"title": "x"}]}`,
			wantOK: true,
		},
		{
			name:   "braces inside strings ignored",
			text:   `{"analysis": "range {low} to {high}"}`,
			want:   `{"analysis": "range {low} to {high}"}`,
			wantOK: true,
		},
		{
			name:   "escaped quote inside string",
			text:   `{"t": "he said \"{\" once"}`,
			want:   `{"t": "he said \"{\" once"}`,
			wantOK: true,
		},
		{
			name:   "no object",
			text:   "sorry, I could not find listings",
			wantOK: false,
		},
		{
			name:   "unterminated object",
			text:   `{"a": 1`,
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONBlock(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseValuationReply(t *testing.T) {
	text := "Based on my search:\n" + `{
		"minPrice": 8800000,
		"maxPrice": "9.400.000",
		"avgPrice": "$9.066.666",
		"currency": "CLP",
		"marketAnalysis": "Oferta amplia en Región Metropolitana.",
		"confidenceScore": 85,
		"foundListings": [
			{"title": "Chileautos - Yaris 2019", "url": "https://www.chileautos.cl/a/123", "price": "$8.990.000"}
		]
	}` + "\nHope this helps."

	reply, err := parseValuationReply(text)
	require.NoError(t, err)

	assert.Equal(t, 8_800_000, int(reply.MinPrice))
	assert.Equal(t, 9_400_000, int(reply.MaxPrice))
	assert.Equal(t, 9_066_666, int(reply.AvgPrice))
	assert.Equal(t, 85.0, reply.ConfidenceScore)
	assert.Equal(t, "Oferta amplia en Región Metropolitana.", reply.MarketAnalysis)
	require.Len(t, reply.FoundListings, 1)
	assert.Equal(t, 8_990_000, int(reply.FoundListings[0].Price))
}

func TestParseValuationReplyNoJSON(t *testing.T) {
	reply, err := parseValuationReply("no structured data here")
	require.NoError(t, err)
	assert.Zero(t, int(reply.AvgPrice))
	assert.Empty(t, reply.FoundListings)
}

func TestFlexIntVariants(t *testing.T) {
	var v struct {
		A flexInt `json:"a"`
		B flexInt `json:"b"`
		C flexInt `json:"c"`
		D flexInt `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 9000000, "b": "9.000.000", "c": "$ 9.000.000", "d": null}`), &v))
	assert.Equal(t, 9_000_000, int(v.A))
	assert.Equal(t, 9_000_000, int(v.B))
	assert.Equal(t, 9_000_000, int(v.C))
	assert.Zero(t, int(v.D))
}

func TestPlateReplyYearFormats(t *testing.T) {
	var asString plateReply
	require.NoError(t, json.Unmarshal([]byte(`{"found": true, "make": "MAZDA", "model": "CX-5", "year": "2018"}`), &asString))
	assert.Equal(t, "2018", asString.Year)

	var asNumber plateReply
	require.NoError(t, json.Unmarshal([]byte(`{"found": true, "make": "MAZDA", "model": "CX-5", "year": 2018}`), &asNumber))
	assert.Equal(t, "2018", asNumber.Year)
}

func TestMergeListings(t *testing.T) {
	model := []replyListing{
		{Title: "Chileautos - Yaris", URL: "https://www.chileautos.cl/a/1", Price: 8_990_000},
		{Title: "duplicate of grounding", URL: "https://listado.mercadolibre.cl/x", Price: 9_100_000},
		{Title: "foreign site", URL: "https://www.cars.com/listing/9", Price: 9_000_000},
		{Title: "no url"},
	}
	grounding := []groundingSource{
		{Title: "MercadoLibre", URI: "https://listado.mercadolibre.cl/x"},
		{Title: "Cars.com", URI: "https://www.cars.com/listing/7"},
	}

	got := mergeListings(model, grounding)
	require.Len(t, got, 2)

	assert.Equal(t, "https://listado.mercadolibre.cl/x", got[0].URL)
	assert.Equal(t, "google-search", got[0].Source)
	assert.Equal(t, "https://www.chileautos.cl/a/1", got[1].URL)
	assert.Equal(t, 8_990_000, got[1].Price)
}

func TestIsChileanListing(t *testing.T) {
	assert.True(t, isChileanListing("https://www.chileautos.cl/a/1"))
	assert.True(t, isChileanListing("https://www.kavak.com/cl/autos"))
	assert.True(t, isChileanListing("https://auto.mercadolibre.com/MLC-1"))
	assert.False(t, isChileanListing("https://www.cars.com/1"))
}
