package models

import "time"

const RoleWorker = "worker"

type User struct {
	UserID    string    `json:"userId" bson:"userId"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Mobile    string    `json:"mobile,omitempty" bson:"mobile,omitempty"`
	Role      []string  `json:"role" bson:"role"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// UserSummary carries the fields shown alongside orders.
type UserSummary struct {
	UserID string `json:"userId" bson:"userId"`
	Name   string `json:"name" bson:"name"`
	Mobile string `json:"mobile,omitempty" bson:"mobile,omitempty"`
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Role {
		if r == role {
			return true
		}
	}
	return false
}

type Address struct {
	AddressID   string `json:"addressId" bson:"addressId"`
	UserID      string `json:"userId" bson:"userId"`
	AddressLine string `json:"addressLine" bson:"address_line"`
	City        string `json:"city" bson:"city"`
	Mobile      string `json:"mobile,omitempty" bson:"mobile,omitempty"`
}
