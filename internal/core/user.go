package core

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleSales      Role = "sales"
	RoleStaff      Role = "staff"
	RoleViewer     Role = "viewer"
)

type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserInactive  UserStatus = "inactive"
	UserSuspended UserStatus = "suspended"
)

type User struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	FirstName       string      `json:"first_name" db:"first_name"`
	LastName        string      `json:"last_name" db:"last_name"`
	Email           string      `json:"email" db:"email"`
	Role            Role        `json:"role" db:"role"`
	Status          UserStatus  `json:"status" db:"status"`
	AssignedRegions StringSlice `json:"assigned_regions" db:"assigned_regions"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
}

// UserStats is the role/status breakdown shown on the user management screen.
type UserStats struct {
	Total       int `json:"total"`
	Active      int `json:"active"`
	Inactive    int `json:"inactive"`
	Suspended   int `json:"suspended"`
	SuperAdmins int `json:"super_admins"`
	Admins      int `json:"admins"`
	Sales       int `json:"sales"`
	Staff       int `json:"staff"`
	Viewers     int `json:"viewers"`
}

// StringSlice stores a JSON array in a single column.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = []string{}
		return nil
	}
	return json.Unmarshal(value.([]byte), s)
}
