package models

// AuthProvider identifies how an identity authenticates.
type AuthProvider string

const (
	AuthProviderPassword AuthProvider = "password"
	AuthProviderGoogle   AuthProvider = "google"
)

// User represents an authenticated identity. Financial state lives on the
// Profile record, mutated only through the profile store.
type User struct {
	Base
	Email       string       `gorm:"uniqueIndex;not null" json:"email"`
	Password    string       `json:"-"` // empty for federated identities
	DisplayName string       `json:"display_name"`
	PhotoURL    string       `json:"photo_url,omitempty"`
	Provider    AuthProvider `gorm:"not null;default:'password'" json:"provider"`
	IsActive    bool         `gorm:"default:true" json:"is_active"`

	Profile      *Profile      `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	Goals        []Goal        `gorm:"foreignKey:UserID" json:"goals,omitempty"`
}
