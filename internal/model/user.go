package model

// User is the scaffold's example resource. Column and table names follow
// GORM's default snake_case naming strategy (users, avatar_path, ...).
type User struct {
	Model

	Email      string `gorm:"uniqueIndex;size:191" json:"email"`
	Password   string `gorm:"size:191" json:"-"`
	Name       string `gorm:"size:64" json:"name"`
	AvatarPath string `gorm:"size:255" json:"avatar_path,omitempty"`
}

// EntityName identifies the resource in diagnostics (not-found errors).
func (User) EntityName() string { return "user" }
