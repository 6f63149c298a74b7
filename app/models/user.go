package models

// Roles.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	Base
	Email    string  `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string  `gorm:"size:255;not null" json:"-"`
	Name     string  `gorm:"size:255;not null" json:"name"`
	Role     string  `gorm:"size:20;not null;default:USER" json:"role"`
	Avatar   *string `gorm:"size:500" json:"avatar"`
}

// Summary is the user shape returned by login.
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, Avatar: u.Avatar}
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

type UserSummary struct {
	ID     uint    `json:"id"`
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Role   string  `json:"role"`
	Avatar *string `json:"avatar"`
}

// UserRef is the {id, name, email} view of a user embedded in bookings,
// orders and inquiries.
type UserRef struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (UserRef) TableName() string { return "users" }
