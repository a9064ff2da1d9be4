package domain

import "time"

type Role string

const (
	RoleTraveler      Role = "traveler"
	RolePropertySales Role = "property_sales"
	RoleAdmin         Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleTraveler || r == RolePropertySales || r == RoleAdmin
}

type User struct {
	ID           string    `json:"id" gorm:"column:id;primaryKey"`
	Email        string    `json:"email" gorm:"column:email;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"column:password_hash"`
	FullName     string    `json:"full_name" gorm:"column:full_name"`
	Role         Role      `json:"role" gorm:"column:role"`
	Phone        string    `json:"phone,omitempty" gorm:"column:phone"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
