// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

// Package access decides, per request path, whether a caller may proceed,
// must log in, or is forbidden. Roles are a closed set and each route family
// names the capability it requires.
package access

import (
	"errors"

	"github.com/gobwas/glob"
	"github.com/samber/oops"
)

// ErrAccessDenied is wrapped by errors describing a forbidden request.
var ErrAccessDenied = errors.New("access denied")

// Principal is the identity a request is made as.
type Principal struct {
	Username string
	Role     Role
}

// Outcome is the result of classifying a request.
type Outcome int

// Outcomes.
const (
	OutcomeAllow Outcome = iota
	OutcomeRedirectLogin
	OutcomeLogout
	OutcomeForbidden
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAllow:
		return "allow"
	case OutcomeRedirectLogin:
		return "redirect_login"
	case OutcomeLogout:
		return "logout"
	case OutcomeForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Decision is what the web layer must do with a request.
type Decision struct {
	Outcome Outcome
	// Location is the redirect target for RedirectLogin and Logout.
	Location string
	// Message is the user-facing text for Forbidden.
	Message string
	// Required is the capability the caller lacked.
	Required Capability
}

// Err returns an ACCESS_DENIED error for a Forbidden decision, or nil.
func (d Decision) Err(path string, p *Principal) error {
	if d.Outcome != OutcomeForbidden {
		return nil
	}
	b := oops.Code("ACCESS_DENIED").With("path", path).With("capability", string(d.Required))
	if p != nil {
		b = b.With("username", p.Username).With("role", string(p.Role))
	}
	return b.Wrap(ErrAccessDenied)
}

type compiledRule struct {
	pattern    string
	glob       glob.Glob
	capability Capability
}

// Controller classifies requests as public, authenticated or forbidden.
// It is immutable after construction.
type Controller struct {
	public []glob.Glob
	logout string
	rules  []compiledRule
	grants map[Role]map[Capability]bool
}

// NewController compiles table and the role grants.
func NewController(table Table, roles map[Role][]Capability) (*Controller, error) {
	c := &Controller{
		logout: table.Logout,
		grants: make(map[Role]map[Capability]bool, len(roles)),
	}

	for _, p := range table.Public {
		g, err := compile(p)
		if err != nil {
			return nil, err
		}
		c.public = append(c.public, g)
	}

	for _, r := range table.Rules {
		g, err := compile(r.Pattern)
		if err != nil {
			return nil, err
		}
		c.rules = append(c.rules, compiledRule{pattern: r.Pattern, glob: g, capability: r.Capability})
	}

	for role, caps := range roles {
		if !role.Valid() {
			return nil, oops.Code("ACCESS_UNKNOWN_ROLE").With("role", string(role)).Errorf("unknown role %q", role)
		}
		set := make(map[Capability]bool, len(caps))
		for _, cp := range caps {
			set[cp] = true
		}
		c.grants[role] = set
	}
	return c, nil
}

// NewDefaultController returns a Controller for DefaultTable and DefaultRoles.
//
// Panics if the default patterns do not compile.
func NewDefaultController() *Controller {
	c, err := NewController(DefaultTable(), DefaultRoles())
	if err != nil {
		panic("invalid default access table: " + err.Error())
	}
	return c
}

func compile(pattern string) (glob.Glob, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, oops.In("access").
			Code("INVALID_ROUTE_PATTERN").
			With("pattern", pattern).
			Wrap(err)
	}
	return g, nil
}

// Decide classifies a request for path. p is nil when the request has no
// valid session.
func (c *Controller) Decide(path string, p *Principal) Decision {
	if c.logout != "" && path == c.logout {
		return Decision{Outcome: OutcomeLogout, Location: LoggedOutURL}
	}
	if c.IsPublic(path) {
		return Decision{Outcome: OutcomeAllow}
	}
	if p == nil {
		return Decision{Outcome: OutcomeRedirectLogin, Location: LoginErrorURL}
	}

	required := c.Required(path)
	if required != "" && !c.Grants(p.Role, required) {
		return Decision{Outcome: OutcomeForbidden, Message: ForbiddenMessage, Required: required}
	}
	return Decision{Outcome: OutcomeAllow}
}

// IsPublic reports whether path needs no session.
func (c *Controller) IsPublic(path string) bool {
	for _, g := range c.public {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// Required returns the capability of the first rule matching path, or "".
func (c *Controller) Required(path string) Capability {
	for _, r := range c.rules {
		if r.glob.Match(path) {
			return r.capability
		}
	}
	return ""
}

// Grants reports whether role holds capability.
func (c *Controller) Grants(role Role, capability Capability) bool {
	return c.grants[role][capability]
}
