package policy

import (
	"net/http"
	"slices"

	"workconnect/internal/model"
	"workconnect/internal/session"
	"workconnect/pkg/apierror"
)

// Rule states who may call one (resource, method, action).
type Rule struct {
	Resource string
	Method   string
	Action   string
	Public   bool
	// Roles limits an authenticated caller; empty means any role.
	Roles []model.Role
	// Default marks the action used when the request names none.
	Default bool
}

// StateChanging reports whether the rule's method needs a CSRF token.
func (r Rule) StateChanging() bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	default:
		return true
	}
}

func (r Rule) Authorize(s *session.Session) error {
	if r.Public {
		return nil
	}
	return RequireRole(s, r.Roles...)
}

// RequireAuthenticated fails with 401 unless the session carries a user.
func RequireAuthenticated(s *session.Session) error {
	if !s.Authenticated() {
		return apierror.Unauthorized("Authentication required.")
	}
	return nil
}

// RequireRole fails with 401 for anonymous callers and 403 when the role is
// not listed. No roles means any authenticated caller.
func RequireRole(s *session.Session, roles ...model.Role) error {
	if err := RequireAuthenticated(s); err != nil {
		return err
	}
	if len(roles) == 0 || slices.Contains(roles, s.Role) {
		return nil
	}
	return apierror.Forbidden("Access denied.")
}

type key struct {
	resource string
	method   string
	action   string
}

type Table struct {
	rules    map[key]Rule
	defaults map[key]string
	ordered  []Rule
}

func NewTable(rules ...Rule) *Table {
	t := &Table{rules: map[key]Rule{}, defaults: map[key]string{}}
	for _, rule := range rules {
		t.rules[key{rule.Resource, rule.Method, rule.Action}] = rule
		if rule.Default {
			t.defaults[key{resource: rule.Resource, method: rule.Method}] = rule.Action
		}
		t.ordered = append(t.ordered, rule)
	}
	return t
}

// Lookup resolves a rule, falling back to the default action when action is empty.
func (t *Table) Lookup(resource string, method string, action string) (Rule, bool) {
	if action == "" {
		action = t.defaults[key{resource: resource, method: method}]
	}
	rule, ok := t.rules[key{resource, method, action}]
	return rule, ok
}

// Allows reports whether some action of resource accepts method.
func (t *Table) Allows(resource string, method string) bool {
	for _, rule := range t.ordered {
		if rule.Resource == resource && rule.Method == method {
			return true
		}
	}
	return false
}

func (t *Table) Rules() []Rule {
	return slices.Clone(t.ordered)
}

// Resources lists resource names in declaration order.
func (t *Table) Resources() []string {
	var out []string
	for _, rule := range t.ordered {
		if !slices.Contains(out, rule.Resource) {
			out = append(out, rule.Resource)
		}
	}
	return out
}
