// Package guard decides whether a navigation target is reachable for a
// session and builds the role-dependent navigation.
package guard

import (
	"errors"
	"fmt"
	"strings"

	"garmentgrid/internal/domain"
)

// Visibility says who may open a route.
type Visibility int

const (
	Public Visibility = iota
	Authenticated
	RoleRestricted
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case RoleRestricted:
		return "role-restricted"
	}
	return "unknown"
}

// Route is static route configuration. Path segments starting with ':' match
// any single segment.
type Route struct {
	Path       string          `json:"path"`
	Name       string          `json:"name"`
	Visibility Visibility      `json:"-"`
	Role       domain.UserRole `json:"-"`
}

// ErrNotFound is returned by Lookup for paths outside the route table.
var ErrNotFound = errors.New("guard: route not found")

// Well-known paths.
const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
	DashboardPath    = "/dashboard"
)

var publicRoutes = []Route{
	{Path: "/", Name: "Home"},
	{Path: "/all-product", Name: "All Products"},
	{Path: "/about", Name: "About"},
	{Path: "/contact", Name: "Contact"},
}

var privateRoutes = []Route{
	{Path: "/myprofile", Name: "Profile", Visibility: Authenticated},
	{Path: DashboardPath, Name: "Dashboard", Visibility: Authenticated},
}

var hiddenRoutes = []Route{
	{Path: "/products", Name: "Products"},
	{Path: "/product/:id", Name: "Product Details"},
	{Path: LoginPath, Name: "Login"},
	{Path: "/register", Name: "Register"},
	{Path: UnauthorizedPath, Name: "Unauthorized"},
}

var dashboardCommon = []Route{
	{Path: "profile", Name: "My Profile", Visibility: Authenticated},
}

var dashboardByRole = map[domain.UserRole][]Route{
	domain.UserRoleAdmin: {
		{Path: "manage-users", Name: "Manage Users"},
		{Path: "all-products", Name: "All Products"},
		{Path: "all-orders", Name: "All Orders"},
	},
	domain.UserRoleManager: {
		{Path: "add-product", Name: "Add Product"},
		{Path: "my-products", Name: "My Products"},
		{Path: "pending-orders", Name: "Pending Orders"},
		{Path: "approved-orders", Name: "Approved Orders"},
	},
	domain.UserRoleBuyer: {
		{Path: "my-orders", Name: "My Orders"},
		{Path: "track-order", Name: "Track Order"},
	},
}

var table = buildTable()

func buildTable() []Route {
	var out []Route
	out = append(out, publicRoutes...)
	out = append(out, privateRoutes...)
	out = append(out, hiddenRoutes...)
	for _, r := range dashboardCommon {
		r.Path = DashboardPath + "/" + r.Path
		out = append(out, r)
	}
	for _, role := range []domain.UserRole{domain.UserRoleAdmin, domain.UserRoleManager, domain.UserRoleBuyer} {
		for _, r := range dashboardByRole[role] {
			r.Path = DashboardPath + "/" + r.Path
			r.Visibility = RoleRestricted
			r.Role = role
			out = append(out, r)
		}
	}
	return out
}

// Routes returns a copy of the route table.
func Routes() []Route {
	return append([]Route(nil), table...)
}

// Lookup resolves a concrete path against the route table. Query strings and
// trailing slashes are ignored.
func Lookup(path string) (Route, error) {
	clean := cleanPath(path)
	for _, r := range table {
		if match(r.Path, clean) {
			return r, nil
		}
	}
	return Route{}, fmt.Errorf("%w: %s", ErrNotFound, clean)
}

// DashboardSection returns the dashboard route for a section name, or the
// dashboard root when section is empty.
func DashboardSection(section string) (Route, error) {
	if section == "" {
		return Lookup(DashboardPath)
	}
	return Lookup(DashboardPath + "/" + section)
}

func cleanPath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}

func match(pattern, path string) bool {
	if pattern == path {
		return true
	}
	ps := strings.Split(pattern, "/")
	xs := strings.Split(path, "/")
	if len(ps) != len(xs) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], ":") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != xs[i] {
			return false
		}
	}
	return true
}
