package research

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/trendscope/core/internal/pkg/llm"
)

var (
	fenceJSONRe = regexp.MustCompile("```json\\s*")
	fenceBareRe = regexp.MustCompile("```\\s*")
)

// stripFences removes markdown code-fence markers the model may wrap
// around its JSON output despite instructions.
func stripFences(raw string) string {
	out := fenceJSONRe.ReplaceAllString(raw, "")
	out = fenceBareRe.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// rawAnalysis mirrors AnalysisResult with pointer fields so absence is
// distinguishable from an explicit empty value.
type rawAnalysis struct {
	RankedPapers          *[]RankedPaper       `json:"ranked_papers"`
	Claims                *[]Claim             `json:"claims"`
	SupportingPapers      *[]SupportingPaper   `json:"supporting_papers"`
	ConflictingPapers     *[]ConflictingPaper  `json:"conflicting_papers"`
	Contradictions        *[]Contradiction     `json:"contradictions"`
	EvidenceGaps          *[]string            `json:"evidence_gaps"`
	DevilsAdvocate        *[]Challenge         `json:"devils_advocate"`
	ConfidenceScore       float64              `json:"confidence_score"`
	ConfidenceBreakdown   *ConfidenceBreakdown `json:"confidence_breakdown"`
	ConfidenceExplanation string               `json:"confidence_explanation"`
	ConfidenceSignals     *ConfidenceSignals   `json:"confidence_signals"`
	ReasoningSummary      string               `json:"reasoning_summary"`
}

// Normalize strips fences, parses the model output as JSON, and backfills
// absent fields with schema defaults. Numeric values pass through without
// clamping. A parse failure returns a *llm.ParseError and is fatal for
// the calling session.
func Normalize(raw string) (*AnalysisResult, error) {
	cleaned := stripFences(raw)

	var parsed rawAnalysis
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, &llm.ParseError{Raw: raw, Err: err}
	}

	result := &AnalysisResult{
		RankedPapers:          derefList(parsed.RankedPapers),
		Claims:                derefList(parsed.Claims),
		SupportingPapers:      derefList(parsed.SupportingPapers),
		ConflictingPapers:     derefList(parsed.ConflictingPapers),
		Contradictions:        derefList(parsed.Contradictions),
		EvidenceGaps:          derefList(parsed.EvidenceGaps),
		DevilsAdvocate:        derefList(parsed.DevilsAdvocate),
		ConfidenceScore:       parsed.ConfidenceScore,
		ConfidenceExplanation: parsed.ConfidenceExplanation,
		ReasoningSummary:      parsed.ReasoningSummary,
	}

	if parsed.ConfidenceBreakdown != nil {
		result.ConfidenceBreakdown = *parsed.ConfidenceBreakdown
	} else {
		result.ConfidenceBreakdown = ConfidenceBreakdown{Recency: 0.5, Relevance: 0.5, Agreement: 0.5}
	}

	if parsed.ConfidenceSignals != nil {
		result.ConfidenceSignals = *parsed.ConfidenceSignals
	} else {
		result.ConfidenceSignals = ConfidenceSignals{Positive: []string{}, Negative: []string{}, Neutral: []string{}}
	}

	return result, nil
}

func derefList[T any](p *[]T) []T {
	if p == nil || *p == nil {
		return []T{}
	}
	return *p
}
