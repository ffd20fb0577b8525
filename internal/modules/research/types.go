package research

import "encoding/json"

// PaperInput is the subject (or candidate) of an analysis request.
type PaperInput struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Tags        []string `json:"tags"`
	Author      string   `json:"author"`
	Source      string   `json:"source"`
	ArxivID     string   `json:"arxiv_id,omitempty"`
	PublishedAt string   `json:"published_at,omitempty"`
	URL         string   `json:"url,omitempty"`
}

// AnalysisResult is the structured output of the reasoning engine.
type AnalysisResult struct {
	RankedPapers          []RankedPaper       `json:"ranked_papers"`
	Claims                []Claim             `json:"claims"`
	SupportingPapers      []SupportingPaper   `json:"supporting_papers"`
	ConflictingPapers     []ConflictingPaper  `json:"conflicting_papers"`
	Contradictions        []Contradiction     `json:"contradictions"`
	EvidenceGaps          []string            `json:"evidence_gaps"`
	DevilsAdvocate        []Challenge         `json:"devils_advocate"`
	ConfidenceScore       float64             `json:"confidence_score"`
	ConfidenceBreakdown   ConfidenceBreakdown `json:"confidence_breakdown"`
	ConfidenceExplanation string              `json:"confidence_explanation"`
	ConfidenceSignals     ConfidenceSignals   `json:"confidence_signals"`
	ReasoningSummary      string              `json:"reasoning_summary"`
}

type RankedPaper struct {
	Title          string  `json:"title"`
	Author         string  `json:"author"`
	RelevanceScore float64 `json:"relevance_score"`
	URL            *string `json:"url"`
	PublishedAt    *string `json:"published_at"`
}

type Claim struct {
	Text     string `json:"text"`
	Type     string `json:"type"`     // hypothesis | finding | methodology | conclusion
	Strength string `json:"strength"` // strong | moderate | weak
}

type SupportingPaper struct {
	Title    string `json:"title"`
	Relation string `json:"relation"`
}

type ConflictingPaper struct {
	Title         string `json:"title"`
	Contradiction string `json:"contradiction"`
}

type Contradiction struct {
	Description string `json:"description"`
	Severity    string `json:"severity"` // high | medium | low
}

type Challenge struct {
	Challenge   string `json:"challenge"`
	TargetClaim string `json:"target_claim"`
}

type ConfidenceBreakdown struct {
	Recency   float64 `json:"recency"`
	Relevance float64 `json:"relevance"`
	Agreement float64 `json:"agreement"`
}

type ConfidenceSignals struct {
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
	Neutral  []string `json:"neutral"`
}

// Video is the auxiliary lookup result surfaced next to an analysis.
type Video struct {
	VideoID   string `json:"videoId"`
	Title     string `json:"title"`
	Channel   string `json:"channel"`
	Thumbnail string `json:"thumbnail"`
}

// Marshal serializes the result for persistence.
func (r *AnalysisResult) Marshal() (json.RawMessage, error) {
	return json.Marshal(r)
}
