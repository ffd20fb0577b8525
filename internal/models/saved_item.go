package models

// SavedItemModel persists a content item the user bookmarked. The item
// payload is denormalized since the source feeds are volatile.
type SavedItemModel struct {
	Base
	UserID      string      `json:"user_id"      gorm:"not null;uniqueIndex:idx_saved_user_item"`
	ItemID      string      `json:"item_id"      gorm:"not null;uniqueIndex:idx_saved_user_item"`
	Title       string      `json:"title"        gorm:"not null"`
	ContentType string      `json:"content_type" gorm:"index"`
	Summary     string      `json:"summary"      gorm:"type:text"`
	Tags        StringArray `json:"tags"         gorm:"type:json;serializer:json"`
	Author      string      `json:"author"`
	Source      string      `json:"source"`
	URL         string      `json:"url"`
}

func (SavedItemModel) TableName() string { return "saved_items" }
