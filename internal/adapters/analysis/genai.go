// Package analysis generates deal analysis memos with a hosted model
package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/core/triage"
	perr "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/errors"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/logger"
)

const (
	defaultModel   = "gemini-2.0-flash"
	defaultTimeout = 60 * time.Second
)

// Options configures the Generator
type Options struct {
	APIKey      string
	Model       string
	Timeout     time.Duration
	Temperature float64

	// Scores bound the fit_score the model is asked for
	Scores triage.Bounds
}

// generateFunc matches genai Models.GenerateContent
type generateFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// Generator asks the model for a memo in JSON mode
type Generator struct {
	generate generateFunc
	opts     Options
	log      logger.Logger
}

// New creates a Generator backed by the Gemini API
func New(ctx context.Context, o Options) (*Generator, error) {
	if strings.TrimSpace(o.APIKey) == "" {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "genai api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  o.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUpstream, "genai client init failed")
	}
	return newGenerator(client.Models.GenerateContent, o), nil
}

func newGenerator(fn generateFunc, o Options) *Generator {
	if o.Model == "" {
		o.Model = defaultModel
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.Scores == (triage.Bounds{}) {
		o.Scores = triage.DefaultConfig().Scores
	}
	return &Generator{generate: fn, opts: o, log: *logger.Named("analysis")}
}

// Generate returns the raw memo document for sub
// The text is returned as produced apart from Markdown fences; field checks happen downstream
func (g *Generator) Generate(ctx context.Context, sub triage.Submission) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(systemPrompt(g.opts.Scores), genai.RoleUser),
		Temperature:       genai.Ptr(float32(g.opts.Temperature)),
	}

	start := time.Now()
	resp, err := g.generate(ctx, g.opts.Model, genai.Text(userPrompt(sub)), cfg)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUpstream, "genai generate failed")
	}
	text := StripFences(resp.Text())
	g.log.Debug().
		Str("model", g.opts.Model).
		Dur("latency", time.Since(start)).
		Int("bytes", len(text)).
		Msg("analysis generated")

	if text == "" {
		return nil, perr.Newf(perr.ErrorCodeUpstream, "genai returned no text")
	}
	return []byte(text), nil
}

// StripFences removes a surrounding Markdown code fence, with or without a language tag
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func systemPrompt(b triage.Bounds) string {
	return fmt.Sprintf(`You are a venture capital analyst screening inbound deals.
Reply with a single JSON object and nothing else, with exactly these keys:
  "fit_score": integer from %d to %d,
  "executive_summary": string,
  "strengths": array of strings,
  "risks": array of strings,
  "diligence_questions": array of strings,
  "fit_reasoning": string explaining the fit_score.
Keep the fit_score consistent with the tone of fit_reasoning.`, b.Min, b.Max)
}

func userPrompt(s triage.Submission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Company: %s\n", s.CompanyName)
	fmt.Fprintf(&b, "Website: %s\n", s.Website)
	fmt.Fprintf(&b, "Sector: %s\n", s.Sector)
	fmt.Fprintf(&b, "Stage: %s\n", s.Stage)
	fmt.Fprintf(&b, "Geography: %s\n", s.Geography)
	fmt.Fprintf(&b, "Pitch:\n%s\n", s.Pitch)
	return b.String()
}

// Disabled is used when no model is configured; every call is unavailable
type Disabled struct{}

// Generate always fails
func (Disabled) Generate(context.Context, triage.Submission) ([]byte, error) {
	return nil, perr.Unavailablef("analysis generation is not configured")
}
