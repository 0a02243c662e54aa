package user

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of principal roles.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleStoreManager  Role = "store_manager"
	RoleStoreEmployee Role = "store_employee"
	RoleCustomer      Role = "customer"
)

// Roles lists every known role.
var Roles = []Role{RoleAdmin, RoleStoreManager, RoleStoreEmployee, RoleCustomer}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStoreManager, RoleStoreEmployee, RoleCustomer:
		return true
	}
	return false
}

// IsStoreRole reports whether r works inside a single store's panel.
func (r Role) IsStoreRole() bool {
	return r == RoleStoreManager || r == RoleStoreEmployee
}

// User is a principal: the profile record behind an authenticated identity.
type User struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Name             string    `json:"name"`
	DisplayName      string    `json:"displayName"`
	PhotoURL         *string   `json:"photoUrl"`
	CityID           string    `json:"cityId"`
	CityName         string    `json:"cityName"`
	FavoriteStoreIDs []string  `json:"favoriteStoreIds"`
	Role             Role      `json:"rol"`
	StoreID          string    `json:"storeId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// CanEditStore reports whether u may change store settings and prices.
func (u *User) CanEditStore() bool {
	return u.Role == RoleAdmin || u.Role == RoleStoreManager
}

// HasStoreAccess reports whether u may act inside storeID's panel.
func (u *User) HasStoreAccess(storeID string) bool {
	if u.Role == RoleAdmin {
		return true
	}
	return u.Role.IsStoreRole() && u.StoreID != "" && u.StoreID == storeID
}
