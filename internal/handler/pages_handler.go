package handler

import (
	"html/template"
	"log/slog"
	"net/http"

	"workconnect/internal/csrf"
	"workconnect/internal/model"
	"workconnect/internal/session"
)

var pageShell = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="csrf-token" content="{{.CSRFToken}}">
<title>{{.Title}} | WorkConnect PH</title>
</head>
<body data-page="{{.Page}}"{{if .Role}} data-role="{{.Role}}"{{end}}>
<main id="app"><h1>{{.Title}}</h1></main>
</body>
</html>
`))

type pageData struct {
	Page      string
	Title     string
	Role      model.Role
	CSRFToken string
}

type page struct {
	name  string
	title string
	// roles empty means anyone; otherwise a login is required.
	roles    []model.Role
	loggedIn bool
}

// PagesHandler renders the browser shells that carry the CSRF meta tag.
type PagesHandler struct {
	sessions *session.Manager
	tokens   *csrf.Manager
}

func NewPagesHandler(sessions *session.Manager, tokens *csrf.Manager) *PagesHandler {
	return &PagesHandler{sessions: sessions, tokens: tokens}
}

func (h *PagesHandler) Home() http.HandlerFunc {
	return h.render(page{name: "home", title: "Find your next job"})
}

func (h *PagesHandler) Login() http.HandlerFunc {
	return h.render(page{name: "login", title: "Sign in"})
}

func (h *PagesHandler) Register() http.HandlerFunc {
	return h.render(page{name: "register", title: "Create an account"})
}

func (h *PagesHandler) Dashboard() http.HandlerFunc {
	return h.render(page{name: "dashboard", title: "Dashboard", loggedIn: true})
}

func (h *PagesHandler) Admin() http.HandlerFunc {
	return h.render(page{name: "admin", title: "Administration", loggedIn: true, roles: []model.Role{model.RoleAdmin}})
}

func (h *PagesHandler) render(p page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := caller(r)
		if p.loggedIn && !s.Authenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if len(p.roles) > 0 && !hasRole(p.roles, s.CurrentRole()) {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}

		token, changed, err := h.tokens.Issue(s)
		if err != nil {
			slog.Error("issue csrf token failed", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if changed || s.ID == "" {
			if err := h.sessions.Save(w, r, s); err != nil {
				slog.Error("save session failed", "error", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if err := pageShell.Execute(w, pageData{Page: p.name, Title: p.title, Role: s.CurrentRole(), CSRFToken: token}); err != nil {
			slog.Error("render page failed", "page", p.name, "error", err)
		}
	}
}

func hasRole(roles []model.Role, role model.Role) bool {
	for _, candidate := range roles {
		if candidate == role {
			return true
		}
	}
	return false
}
