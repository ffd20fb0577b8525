package models

import "encoding/json"

// AnalysisModel caches a normalized research analysis result, keyed by a
// hash of the subject paper and its candidate set.
type AnalysisModel struct {
	Base
	Hash    string          `json:"hash"     gorm:"uniqueIndex;not null"`
	PaperID string          `json:"paper_id" gorm:"index;not null"`
	Title   string          `json:"title"`
	Result  json.RawMessage `json:"result"   gorm:"type:longtext;serializer:json"`
}

func (AnalysisModel) TableName() string { return "analyses" }
