package module

import (
	"strings"
	"time"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/adapters/analysis"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/adapters/notify"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/core/triage"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/config"
)

// Options controls the deals module
type Options struct {
	// ThesisFile is a YAML triage config; when empty the thesis is assembled from DEALS_* env
	ThesisFile string
	Inline     triage.Config

	NotifyOn string
	Migrate  bool
	// TxTimeout bounds statements inside a submit transaction, zero leaves the server default
	TxTimeout time.Duration
	// MaxInflight caps concurrent deals requests, the rest queue briefly then get 429; zero is unlimited
	MaxInflight int

	GenAI  analysis.Options
	Notify notify.Options
}

// FromConfig reads DEALS_*, GENAI_* and NOTIFY_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	dc := cfg.Prefix("DEALS_")
	gc := cfg.Prefix("GENAI_")
	nc := cfg.Prefix("NOTIFY_")

	def := triage.DefaultConfig()
	return Options{
		ThesisFile: strings.TrimSpace(dc.MayString("THESIS_FILE", "")),
		Inline: triage.Config{
			Thesis: triage.Thesis{
				Version:      dc.MayString("THESIS_VERSION", def.Thesis.Version),
				Sectors:      dc.MayCSV("SECTORS", def.Thesis.Sectors),
				Stages:       dc.MayCSV("STAGES", def.Thesis.Stages),
				QualifyAbove: dc.MayInt("QUALIFY_ABOVE", def.Thesis.QualifyAbove),
				Review: triage.Bounds{
					Min: dc.MayInt("REVIEW_MIN", def.Thesis.Review.Min),
					Max: dc.MayInt("REVIEW_MAX", def.Thesis.Review.Max),
				},
			},
			Guardrail: triage.Guardrail{
				Phrases: dc.MayCSV("GUARDRAIL_PHRASES", def.Guardrail.Phrases),
				Floor:   dc.MayInt("GUARDRAIL_FLOOR", def.Guardrail.Floor),
			},
			Scores: def.Scores,
		},
		NotifyOn:    dc.MayString("NOTIFY_ON", "Qualified,Review"),
		Migrate:     dc.MayBool("MIGRATE", false),
		TxTimeout:   dc.MayDuration("TX_TIMEOUT", 0),
		MaxInflight: dc.MayInt("MAX_INFLIGHT", 0),
		GenAI: analysis.Options{
			APIKey:      gc.MayString("API_KEY", ""),
			Model:       gc.MayString("MODEL", "gemini-2.0-flash"),
			Timeout:     gc.MayDuration("TIMEOUT", 60*time.Second),
			Temperature: gc.MayFloat64("TEMPERATURE", 0.2),
		},
		Notify: notify.Options{
			URL:        nc.MayString("WEBHOOK_URL", ""),
			Timeout:    nc.MayDuration("TIMEOUT", 5*time.Second),
			MaxRetries: nc.MayInt("MAX_RETRIES", 3),
			RetryBase:  nc.MayDuration("RETRY_BASE", 500*time.Millisecond),
		},
	}
}

// TriageConfig loads ThesisFile when set, otherwise returns the env assembled config
// Either way the result has passed Validate
func (o Options) TriageConfig() (triage.Config, error) {
	if o.ThesisFile != "" {
		return triage.LoadConfigFile(o.ThesisFile)
	}
	if err := o.Inline.Validate(); err != nil {
		return triage.Config{}, err
	}
	return o.Inline, nil
}
