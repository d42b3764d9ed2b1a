package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
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
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// defaultPolicies lets every registered user read its own session.
var defaultPolicies = []string{"p:user:session:read"}

var errInvalidPolicy = errors.New("app: invalid casbin policy")

// newEnforcer builds an in-memory RBAC enforcer. A policy line is either
// "p:subject:object:action" or "g:member:role".
func newEnforcer(lines []string) (*casbin.Enforcer, error) {
	if len(lines) == 0 {
		lines = defaultPolicies
	}

	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		parts := strings.Split(line, ":")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch {
		case len(parts) == 4 && parts[0] == "p":
			if _, err := e.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
				return nil, err
			}
		case len(parts) == 3 && parts[0] == "g":
			if _, err := e.AddGroupingPolicy(parts[1], parts[2]); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: %q", errInvalidPolicy, line)
		}
	}

	return e, nil
}
