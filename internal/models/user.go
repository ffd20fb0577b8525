package models

// UserModel is the platform owner account used for the admin surfaces.
type UserModel struct {
	Base
	Username string `json:"username" gorm:"uniqueIndex;not null"`
	Name     string `json:"name"`
	Password string `json:"-"        gorm:"not null"` // bcrypt hash
}

func (UserModel) TableName() string { return "users" }
