package models

// NotificationModel stores per-user notifications surfaced by the bell menu.
type NotificationModel struct {
	Base
	UserID  string `json:"user_id" gorm:"index"`
	Type    string `json:"type"    gorm:"index"` // new_content | analysis_done | system
	Title   string `json:"title"   gorm:"not null"`
	Message string `json:"message" gorm:"type:text"`
	RefID   string `json:"ref_id"  gorm:"index"`
	Read    bool   `json:"read"    gorm:"index;default:false"`
}

func (NotificationModel) TableName() string { return "notifications" }
