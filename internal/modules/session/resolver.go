// Package session decides which panel area a principal may use and where a
// requested path has to be redirected.
package session

import (
	"path"
	"strings"

	"github.com/georgemunganga/akistapp-admin/internal/modules/user"
	"github.com/samber/mo"
)

// AreaKind names one of the three top-level panel areas.
type AreaKind string

const (
	LoginOnly AreaKind = "login_only"
	AdminArea AreaKind = "admin_area"
	StoreArea AreaKind = "store_area"
)

const (
	loginPath     = "/login"
	dashboardPath = "/dashboard"
	storePrefix   = "/store/"
)

// Area is the single area a principal is allowed into. StoreID is set only
// for StoreArea.
type Area struct {
	Kind    AreaKind `json:"kind"`
	StoreID string   `json:"storeId,omitempty"`
}

// EntryPath is where a principal lands when redirected into the area.
func (a Area) EntryPath() string {
	switch a.Kind {
	case AdminArea:
		return dashboardPath
	case StoreArea:
		return storePrefix + a.StoreID
	default:
		return loginPath
	}
}

// Owns reports whether p (already cleaned) belongs to the area.
func (a Area) Owns(p string) bool {
	entry := a.EntryPath()
	if a.Kind == LoginOnly {
		return p == entry
	}
	return p == entry || strings.HasPrefix(p, entry+"/")
}

// Decision is the outcome of one resolution.
type Decision struct {
	Area       Area   `json:"area"`
	TargetPath string `json:"targetPath"`
	Redirect   bool   `json:"redirect"`
}

// AreaFor maps an auth identity and its profile to an area, failing closed to
// LoginOnly for anything it does not recognise.
func AreaFor(authPrincipalID mo.Option[string], profile mo.Option[user.User]) Area {
	id, ok := authPrincipalID.Get()
	if !ok || id == "" {
		return Area{Kind: LoginOnly}
	}
	p, ok := profile.Get()
	if !ok || p.ID.String() != id {
		return Area{Kind: LoginOnly}
	}

	switch p.Role {
	case user.RoleAdmin:
		return Area{Kind: AdminArea}
	case user.RoleStoreManager, user.RoleStoreEmployee:
		if p.StoreID == "" {
			return Area{Kind: LoginOnly}
		}
		return Area{Kind: StoreArea, StoreID: p.StoreID}
	default:
		return Area{Kind: LoginOnly}
	}
}

// Resolve computes the area for the principal and whether currentPath must be
// redirected to that area's entry path. It has no side effects.
func Resolve(authPrincipalID mo.Option[string], profile mo.Option[user.User], currentPath string) Decision {
	area := AreaFor(authPrincipalID, profile)
	cleaned := cleanPath(currentPath)
	if area.Owns(cleaned) {
		return Decision{Area: area, TargetPath: cleaned}
	}
	return Decision{Area: area, TargetPath: area.EntryPath(), Redirect: true}
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
