// Package gemini implements plate and price providers backed by the Gemini
// API with Google Search grounding.
package gemini

import (
	"context"
	"time"

	"google.golang.org/genai"

	"github.com/mrcar-cl/tasador/internal/infrastructure/monitoring/logging"
	"github.com/mrcar-cl/tasador/pkg/errors"
)

// Client wraps the genai SDK with the model choice and per-call timeout the
// providers share.
type Client struct {
	genai   *genai.Client
	model   string
	timeout time.Duration
	logger  logging.Logger
}

// NewClient dials the Gemini API.  The key is mandatory; model and timeout
// fall back to sane values for a search-grounded workload.
func NewClient(ctx context.Context, apiKey, model string, timeout time.Duration, logger logging.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, errors.InvalidParam("gemini api key is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "create gemini client")
	}

	return &Client{
		genai:   c,
		model:   model,
		timeout: timeout,
		logger:  logger.Named("gemini"),
	}, nil
}

// generate runs one grounded generation and returns the raw text plus the
// web grounding chunks the model consulted.
func (c *Client) generate(ctx context.Context, prompt string) (string, []groundingSource, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt),
		&genai.GenerateContentConfig{
			Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		})
	if err != nil {
		return "", nil, errors.Wrap(err, errors.ErrCodeExternalService, "gemini generate")
	}

	text := resp.Text()
	if text == "" {
		return "", nil, errors.New(errors.ErrCodeProviderParseError, "gemini returned an empty response")
	}

	return text, groundingSources(resp), nil
}

type groundingSource struct {
	Title string
	URI   string
}

func groundingSources(resp *genai.GenerateContentResponse) []groundingSource {
	if len(resp.Candidates) == 0 {
		return nil
	}
	md := resp.Candidates[0].GroundingMetadata
	if md == nil {
		return nil
	}

	var out []groundingSource
	for _, chunk := range md.GroundingChunks {
		if chunk.Web == nil || chunk.Web.URI == "" || chunk.Web.Title == "" {
			continue
		}
		out = append(out, groundingSource{Title: chunk.Web.Title, URI: chunk.Web.URI})
	}
	return out
}
