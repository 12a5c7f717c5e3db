package entity

type AuthProvider string

const (
	ProviderLocal  AuthProvider = "LOCAL"
	ProviderGoogle AuthProvider = "GOOGLE"
)

// User is the general basic structure of all users across the platform.
type User struct {
	ID             int64        `gorm:"primaryKey"`
	Email          string       `gorm:"not null;uniqueIndex"`
	Password       string       `gorm:"not null"` // bcrypt hash
	Name           string
	Role           string       `gorm:"not null;default:USER"`
	Provider       AuthProvider `gorm:"not null;default:LOCAL"`
	ProfilePicture string
	CreatedAt      int64 `gorm:"not null"`
	UpdatedAt      int64 `gorm:"not null;autoUpdateTime:false"`
}

// DisplayName resolves the name shown on feeds and notifications.
// Google users always have a name, local ones may not.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
