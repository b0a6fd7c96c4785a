package entity

import "strings"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is a dashboard account, provisioned from the identity provider on first access.
type User struct {
	ID          int64  `gorm:"primaryKey"`
	SubUUID     string `gorm:"not null;uniqueIndex"`
	Email       string `gorm:"not null;index"`
	DisplayName string
	Role        Role  `gorm:"not null;default:user"`
	Active      bool  `gorm:"not null;default:true"`
	CreatedAt   int64 `gorm:"not null;autoCreateTime:false"`
	UpdatedAt   int64 `gorm:"not null;autoUpdateTime:false"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Label is the display name, or the email when the account has none.
func (u *User) Label() string {
	if name := strings.TrimSpace(u.DisplayName); name != "" {
		return name
	}
	return u.Email
}
