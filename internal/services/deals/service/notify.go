package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/core/triage"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/logger"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/services/deals/domain"
)

// DefaultNotifyOn lists the dispositions announced when nothing is configured
var DefaultNotifyOn = []triage.Disposition{triage.Qualified, triage.Review}

// ParseNotifyOn reads a comma separated disposition list
// Unknown names are an error
func ParseNotifyOn(csv string) ([]triage.Disposition, error) {
	var out []triage.Disposition
	for _, part := range strings.Split(csv, ",") {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}
		d, ok := parseDisposition(p)
		if !ok {
			return nil, fmt.Errorf("unknown disposition %q", p)
		}
		out = append(out, d)
	}
	return out, nil
}

func parseDisposition(s string) (triage.Disposition, bool) {
	for _, d := range []triage.Disposition{triage.Qualified, triage.Review, triage.Pass} {
		if strings.EqualFold(s, string(d)) {
			return d, true
		}
	}
	return "", false
}

// Message renders the chat notification for a triaged deal
func Message(d domain.Deal, disp triage.Disposition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s* %s (%s)\n", disp, d.CompanyName, d.Website)
	fmt.Fprintf(&b, "%s · %s · %s\n", d.Sector, d.Stage, d.Geography)
	if d.FitScore != nil {
		fmt.Fprintf(&b, "Fit score: %d\n", *d.FitScore)
	}
	if d.Memo != nil && strings.TrimSpace(d.Memo.ExecutiveSummary) != "" {
		b.WriteString(strings.TrimSpace(d.Memo.ExecutiveSummary))
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "Deal: %s", d.ID)
	return b.String()
}

// announce sends the notification when disp is in the configured set
// failures are logged, never returned
func (s *Svc) announce(ctx context.Context, d domain.Deal, disp triage.Disposition) {
	if s.notifier == nil || !s.notifyOn[disp] {
		return
	}
	if err := s.notifier.Notify(ctx, Message(d, disp)); err != nil {
		logger.C(ctx).Error().
			Err(err).
			Str("deal_id", d.ID).
			Str("disposition", string(disp)).
			Msg("deal notification failed")
	}
}
