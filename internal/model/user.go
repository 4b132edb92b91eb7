package model

import (
	"time"

	"github.com/ameyabis/projet-7-api-rest/internal/hateoas"
)

// RoleUser is the base role every user carries implicitly.
const RoleUser = "ROLE_USER"

// User is an end user belonging to a customer's account. The `groups` tags
// drive the serializer: only fields in the "getUsers" group are exposed
// through the API; username, password hash and roles never leave the system.
type User struct {
	ID         uint      `json:"id" groups:"getUsers" gorm:"primaryKey"`
	Username   string    `json:"username" gorm:"uniqueIndex;size:180;not null"`
	Password   string    `json:"-" gorm:"size:255;not null"` // bcrypt hash, never exposed
	Roles      []string  `json:"-" gorm:"serializer:json"`
	Firstname  string    `json:"firstname" groups:"getUsers" gorm:"size:255;not null"`
	Lastname   string    `json:"lastname" groups:"getUsers" gorm:"size:255;not null"`
	Email      string    `json:"email" groups:"getUsers" gorm:"size:255;not null"`
	CustomerID uint      `json:"-" gorm:"not null;index"`
	Customer   Customer  `json:"customer" groups:"getUsers" gorm:"foreignKey:CustomerID"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

// EffectiveRoles returns the stored roles plus the guaranteed base role,
// deduplicated, preserving stored order.
func (u *User) EffectiveRoles() []string {
	seen := map[string]bool{}
	roles := make([]string, 0, len(u.Roles)+1)
	for _, role := range append(append([]string{}, u.Roles...), RoleUser) {
		if !seen[role] {
			seen[role] = true
			roles = append(roles, role)
		}
	}
	return roles
}

// Relations declares the hypermedia links attached to a serialized user.
func (u User) Relations() []hateoas.Relation {
	id := hateoas.Param("id", u.ID)
	return []hateoas.Relation{
		{Rel: "self", Route: RouteOneUser, Params: id},
		{Rel: "all_users", Route: RouteAllUsers},
		{Rel: "delete", Route: RouteDeleteUser, Params: id},
	}
}
