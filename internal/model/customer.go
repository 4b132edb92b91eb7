package model

import "time"

// Customer is a B2B client account (tenant). Every API user belongs to
// exactly one customer, and all user reads are scoped to it.
type Customer struct {
	ID        uint      `json:"id" groups:"getUsers" gorm:"primaryKey"`
	Name      string    `json:"name" groups:"getUsers" gorm:"uniqueIndex;size:255;not null"`
	Phone     string    `json:"phone" gorm:"size:50"`
	Contact   string    `json:"contact" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Users []User `json:"users,omitempty" gorm:"foreignKey:CustomerID"`
}
