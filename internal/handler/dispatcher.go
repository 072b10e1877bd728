package handler

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"workconnect/internal/middleware"
	"workconnect/internal/policy"
)

// actionSet maps "METHOD action" to the function serving it.
type actionSet map[string]http.HandlerFunc

func actionKey(method string, action string) string {
	return method + " " + action
}

// resource is implemented by each API handler.
type resource interface {
	name() string
	actions() actionSet
	configure(showDetails bool)
}

// Dispatcher serves /api/v1/{resource}. The guard has already resolved the
// policy rule, so it only has to find the action's function.
type Dispatcher struct {
	responder
	handlers map[string]actionSet
}

// NewDispatcher wires resources against table and fails when a rule has no
// handler or a handler has no rule.
func NewDispatcher(table *policy.Table, showDetails bool, resources ...resource) (*Dispatcher, error) {
	d := &Dispatcher{responder: responder{showDetails: showDetails}, handlers: map[string]actionSet{}}
	for _, res := range resources {
		res.configure(showDetails)
		d.handlers[res.name()] = res.actions()
	}

	var problems []string
	declared := map[string]bool{}
	for _, rule := range table.Rules() {
		k := rule.Resource + " " + actionKey(rule.Method, rule.Action)
		declared[k] = true
		if _, ok := d.handlers[rule.Resource][actionKey(rule.Method, rule.Action)]; !ok {
			problems = append(problems, "no handler for "+k)
		}
	}
	for name, set := range d.handlers {
		for k := range set {
			if !declared[name+" "+k] {
				problems = append(problems, "no policy rule for "+name+" "+k)
			}
		}
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return nil, fmt.Errorf("dispatcher: %s", strings.Join(problems, "; "))
	}

	return d, nil
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rule, ok := middleware.RuleFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse("Endpoint not found."))
		return
	}

	fn, ok := d.handlers[rule.Resource][actionKey(rule.Method, rule.Action)]
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse("Invalid action."))
		return
	}
	fn(w, r)
}
