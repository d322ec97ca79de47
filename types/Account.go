package types

import "time"

type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Username         string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email            string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash     string    `gorm:"not null" json:"-"`
	IsAdmin          bool      `gorm:"not null;default:false" json:"is_admin"`
	CurrentAccountID *uint     `json:"current_account,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

type Account struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Description string    `json:"description"`
	Members     []User    `gorm:"many2many:account_members;constraint:OnDelete:CASCADE" json:"users,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Account) TableName() string {
	return "accounts"
}
