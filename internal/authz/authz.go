// Package authz gates the billing surface behind role checks. Policies are
// static process configuration, not tenant data, so the enforcer is built
// from an in-memory model.
package authz

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

type Enforcer struct {
	enforcer *casbin.Enforcer
}

func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("build authz model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("build authz enforcer: %w", err)
	}

	// The whole billing surface is admin-only. Cashiers may apply payments
	// and read bills but never generate, amend or delete them.
	policies := [][]string{
		{"admin", "/billing/*", ".*"},
		{"cashier", "/billing/*", "GET"},
		{"cashier", "/billing/*/payment", "POST"},
	}
	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, fmt.Errorf("add authz policy: %w", err)
		}
	}
	if _, err := e.AddGroupingPolicy("admin", "cashier"); err != nil {
		return nil, fmt.Errorf("add authz grouping: %w", err)
	}
	return &Enforcer{enforcer: e}, nil
}

func (e *Enforcer) Allowed(role, path, method string) bool {
	ok, err := e.enforcer.Enforce(role, path, method)
	return err == nil && ok
}
