package domain

import "time"

type Property struct {
	ID           string    `json:"id" gorm:"column:id;primaryKey"`
	Name         string    `json:"name" gorm:"column:name"`
	Description  string    `json:"description,omitempty" gorm:"column:description;type:text"`
	Location     string    `json:"location" gorm:"column:location"`
	ContactName  string    `json:"contact_name,omitempty" gorm:"column:contact_name"`
	ContactEmail string    `json:"contact_email,omitempty" gorm:"column:contact_email"`
	ContactPhone string    `json:"contact_phone,omitempty" gorm:"column:contact_phone"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Rooms []Room `json:"rooms,omitempty" gorm:"foreignKey:PropertyID"`
}

func (Property) TableName() string { return "properties" }

type Room struct {
	ID           string    `json:"id" gorm:"column:id;primaryKey"`
	PropertyID   string    `json:"property_id" gorm:"column:property_id;index"`
	Name         string    `json:"name" gorm:"column:name"`
	Description  string    `json:"description,omitempty" gorm:"column:description;type:text"`
	MaxOccupancy int       `json:"max_occupancy" gorm:"column:max_occupancy"`
	BaseRate     float64   `json:"base_rate" gorm:"column:base_rate"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Room) TableName() string { return "rooms" }
