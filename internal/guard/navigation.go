package guard

import "garmentgrid/internal/domain"

// Link is one navigation entry.
type Link struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// Navigation is what the navbar and dashboard sidebar show for a session.
type Navigation struct {
	Navbar  []Link `json:"navbar"`
	Sidebar []Link `json:"sidebar"`
}

// NavigationFor returns the navbar links (public, plus private ones once
// signed in) and the sidebar links for the session's role. Signed-out and
// still-loading sessions get no sidebar.
func NavigationFor(s domain.Session) Navigation {
	nav := Navigation{
		Navbar:  links(publicRoutes, ""),
		Sidebar: []Link{},
	}
	if !s.Authenticated() {
		return nav
	}
	nav.Navbar = append(nav.Navbar, links(privateRoutes, "")...)

	role := s.Role
	if !role.Valid() {
		role = domain.UserRoleBuyer
	}
	prefix := DashboardPath + "/"
	nav.Sidebar = append(nav.Sidebar, links(dashboardCommon, prefix)...)
	nav.Sidebar = append(nav.Sidebar, links(dashboardByRole[role], prefix)...)
	return nav
}

func links(routes []Route, prefix string) []Link {
	out := make([]Link, 0, len(routes))
	for _, r := range routes {
		out = append(out, Link{Path: prefix + r.Path, Name: r.Name})
	}
	return out
}
