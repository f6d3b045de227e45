package adapthttp

import (
	"net/http"

	"inventory/internal/domain"
)

type tab struct {
	Slug   string
	Title  string
	Active bool
}

type dashboardPage struct {
	Username string
	Role     domain.Role
	Tabs     []tab
	Active   string
}

// handleDashboard renders the page shell. The selected tab's fragment is
// loaded by the client; ?tab= picks it, defaulting to the first tab.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	who, _ := domain.AsAuthenticated(identityFrom(r.Context()))

	var tabs []tab
	for _, rs := range s.resources {
		k := rs.Kind()
		tabs = append(tabs, tab{Slug: k.Slug, Title: k.Title})
	}
	if domain.Can(who, domain.ActionListUsers) {
		tabs = append(tabs, tab{Slug: "users", Title: "Users"})
	}

	page := dashboardPage{Username: who.Username, Role: who.Role, Tabs: tabs}
	want := r.URL.Query().Get("tab")
	for i := range page.Tabs {
		if page.Tabs[i].Slug == want {
			page.Tabs[i].Active = true
			page.Active = want
		}
	}
	if page.Active == "" && len(page.Tabs) > 0 {
		page.Tabs[0].Active = true
		page.Active = page.Tabs[0].Slug
	}
	s.renderPage(w, r, "dashboard", page)
}
