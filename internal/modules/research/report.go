package research

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"

	"github.com/trendscope/core/internal/pkg/s3store"
)

// ReportRenderer turns an AnalysisResult into a shareable report.
type ReportRenderer struct {
	md      goldmark.Markdown
	archive *s3store.Store
	log     *zap.Logger
}

func NewReportRenderer(archive *s3store.Store, log *zap.Logger) *ReportRenderer {
	return &ReportRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(htmlrenderer.WithHardWraps()),
		),
		archive: archive,
		log:     log.Named("report"),
	}
}

// Markdown renders the analysis as a markdown document.
func (r *ReportRenderer) Markdown(subject *PaperInput, result *AnalysisResult) string {
	var b strings.Builder

	title := "Research Analysis"
	if subject != nil && subject.Title != "" {
		title = subject.Title
	}
	fmt.Fprintf(&b, "# ResearchMind Report: %s\n\n", title)
	if subject != nil && subject.Author != "" {
		fmt.Fprintf(&b, "*%s — %s*\n\n", subject.Author, subject.Source)
	}
	fmt.Fprintf(&b, "Generated %s\n\n", time.Now().Format("2006-01-02 15:04"))

	fmt.Fprintf(&b, "## Confidence: %.0f%%\n\n", result.ConfidenceScore*100)
	if result.ConfidenceExplanation != "" {
		b.WriteString(result.ConfidenceExplanation + "\n\n")
	}
	fmt.Fprintf(&b, "| Recency | Relevance | Agreement |\n|---|---|---|\n| %.2f | %.2f | %.2f |\n\n",
		result.ConfidenceBreakdown.Recency,
		result.ConfidenceBreakdown.Relevance,
		result.ConfidenceBreakdown.Agreement)

	writeSignalList(&b, "Positive signals", result.ConfidenceSignals.Positive)
	writeSignalList(&b, "Negative signals", result.ConfidenceSignals.Negative)
	writeSignalList(&b, "Neutral signals", result.ConfidenceSignals.Neutral)

	if len(result.RankedPapers) > 0 {
		b.WriteString("## Ranked Related Papers\n\n")
		for i, p := range result.RankedPapers {
			fmt.Fprintf(&b, "%d. **%s** by %s (relevance %.2f)\n", i+1, p.Title, p.Author, p.RelevanceScore)
		}
		b.WriteString("\n")
	}

	if len(result.Claims) > 0 {
		b.WriteString("## Key Claims\n\n")
		for _, c := range result.Claims {
			fmt.Fprintf(&b, "- **[%s/%s]** %s\n", c.Type, c.Strength, c.Text)
		}
		b.WriteString("\n")
	}

	if len(result.SupportingPapers) > 0 {
		b.WriteString("## Supporting Papers\n\n")
		for _, p := range result.SupportingPapers {
			fmt.Fprintf(&b, "- **%s** — %s\n", p.Title, p.Relation)
		}
		b.WriteString("\n")
	}

	if len(result.ConflictingPapers) > 0 {
		b.WriteString("## Conflicting Papers\n\n")
		for _, p := range result.ConflictingPapers {
			fmt.Fprintf(&b, "- **%s** — %s\n", p.Title, p.Contradiction)
		}
		b.WriteString("\n")
	}

	if len(result.Contradictions) > 0 {
		b.WriteString("## Contradictions\n\n")
		for _, c := range result.Contradictions {
			fmt.Fprintf(&b, "- *(%s)* %s\n", c.Severity, c.Description)
		}
		b.WriteString("\n")
	}

	if len(result.EvidenceGaps) > 0 {
		b.WriteString("## Evidence Gaps\n\n")
		for _, g := range result.EvidenceGaps {
			fmt.Fprintf(&b, "- %s\n", g)
		}
		b.WriteString("\n")
	}

	if len(result.DevilsAdvocate) > 0 {
		b.WriteString("## Devil's Advocate\n\n")
		for _, d := range result.DevilsAdvocate {
			fmt.Fprintf(&b, "- **Challenge:** %s\n  - Targets: %s\n", d.Challenge, d.TargetClaim)
		}
		b.WriteString("\n")
	}

	if result.ReasoningSummary != "" {
		b.WriteString("## Summary\n\n" + result.ReasoningSummary + "\n")
	}

	return b.String()
}

// HTML converts the markdown report to HTML.
func (r *ReportRenderer) HTML(subject *PaperInput, result *AnalysisResult) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(r.Markdown(subject, result)), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Archive uploads the markdown report to the configured bucket and returns
// its URL. Returns "" when archival is disabled.
func (r *ReportRenderer) Archive(ctx context.Context, sessionID string, subject *PaperInput, result *AnalysisResult) string {
	if r.archive == nil {
		return ""
	}
	key := fmt.Sprintf("reports/%s/%s.md", time.Now().Format("2006/01"), sessionID)
	url, err := r.archive.Put(ctx, key, []byte(r.Markdown(subject, result)), "text/markdown; charset=utf-8")
	if err != nil {
		r.log.Warn("report archive failed", zap.Error(err))
		return ""
	}
	return url
}

func writeSignalList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
