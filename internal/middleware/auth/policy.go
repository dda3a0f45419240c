package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ashukla/ridepool/internal/models"
)

// Rule maps a request pattern to the roles allowed to hit it. An empty
// Roles set with Public=false means any authenticated identity. Method
// "" matches every method. Patterns are slash-separated segments where
// ":name" matches one segment and a trailing "*" matches the rest.
type Rule struct {
	Method  string
	Pattern string
	Public  bool
	Roles   []models.Role

	segments []string
}

// Policy is the startup-validated route authorization table. Requests
// that match no rule require any authenticated identity.
type Policy struct {
	rules []Rule
}

func NewPolicy(rules []Rule) (*Policy, error) {
	for i := range rules {
		segs, err := parsePattern(rules[i].Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rules[i].Pattern, err)
		}
		rules[i].segments = segs
		for _, role := range rules[i].Roles {
			if _, err := models.ParseRole(role.String()); err != nil {
				return nil, fmt.Errorf("rule %q: %w", rules[i].Pattern, err)
			}
		}
	}

	for i := 0; i < len(rules); i++ {
		for j := i + 1; j < len(rules); j++ {
			if rulesConflict(&rules[i], &rules[j]) {
				return nil, fmt.Errorf("ambiguous rules: %s %q and %s %q match the same requests with equal specificity",
					rules[i].Method, rules[i].Pattern, rules[j].Method, rules[j].Pattern)
			}
		}
	}

	return &Policy{rules: rules}, nil
}

// MustPolicy is NewPolicy for tables known at compile time.
func MustPolicy(rules []Rule) *Policy {
	p, err := NewPolicy(rules)
	if err != nil {
		panic(err)
	}
	return p
}

func parsePattern(pattern string) ([]string, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("pattern must start with /")
	}
	segs := strings.Split(strings.TrimPrefix(pattern, "/"), "/")
	for i, s := range segs {
		if s == "" && !(i == 0 && len(segs) == 1) {
			return nil, fmt.Errorf("empty segment")
		}
		if s == "*" && i != len(segs)-1 {
			return nil, fmt.Errorf("* is only allowed as the final segment")
		}
	}
	return segs, nil
}

// specificity counts literal segments. The most specific matching rule
// wins; validation guarantees no two matching rules tie.
func specificity(segs []string) int {
	n := 0
	for _, s := range segs {
		if s != "*" && !strings.HasPrefix(s, ":") {
			n++
		}
	}
	return n
}

func segmentsMatch(segs, path []string) bool {
	for i, s := range segs {
		if s == "*" {
			return true
		}
		if i >= len(path) {
			return false
		}
		if !strings.HasPrefix(s, ":") && s != path[i] {
			return false
		}
	}
	return len(segs) == len(path)
}

// rulesConflict reports whether two rules can match the same concrete
// request with equal specificity. Such tables are configuration errors.
func rulesConflict(a, b *Rule) bool {
	if a.Method != "" && b.Method != "" && a.Method != b.Method {
		return false
	}
	if specificity(a.segments) != specificity(b.segments) {
		return false
	}
	wildA := a.segments[len(a.segments)-1] == "*"
	wildB := b.segments[len(b.segments)-1] == "*"
	if !wildA && !wildB && len(a.segments) != len(b.segments) {
		return false
	}
	n := len(a.segments)
	if len(b.segments) < n {
		n = len(b.segments)
	}
	for i := 0; i < n; i++ {
		sa, sb := a.segments[i], b.segments[i]
		if sa == "*" || sb == "*" {
			return true
		}
		litA := !strings.HasPrefix(sa, ":")
		litB := !strings.HasPrefix(sb, ":")
		if litA && litB && sa != sb {
			return false
		}
	}
	return true
}

// match returns the most specific rule for the request, or nil.
func (p *Policy) match(method, path string) *Rule {
	pathSegs := strings.Split(strings.TrimPrefix(strings.TrimSuffix(path, "/"), "/"), "/")
	if path == "/" {
		pathSegs = []string{""}
	}

	var best *Rule
	for i := range p.rules {
		r := &p.rules[i]
		if r.Method != "" && r.Method != method {
			continue
		}
		if !segmentsMatch(r.segments, pathSegs) {
			continue
		}
		if best == nil || specificity(r.segments) > specificity(best.segments) {
			best = r
		}
	}
	return best
}

type forbiddenBody struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Details   string    `json:"details"`
}

// Authorize enforces the policy table against the identity established
// by the filter. It runs after Filter in the chain.
func (m *Middleware) Authorize(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		rule := m.Policy.match(req.Method, req.URL.Path)

		if rule != nil && rule.Public {
			return next(c)
		}

		id, ok := IdentityFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, errorBody{
				Error:   "unauthenticated",
				Message: "authentication required",
			})
		}

		if rule == nil || len(rule.Roles) == 0 {
			return next(c)
		}

		for _, role := range rule.Roles {
			if id.Role == role {
				return next(c)
			}
		}

		return c.JSON(http.StatusForbidden, forbiddenBody{
			Timestamp: time.Now().UTC(),
			Message:   "Access denied",
			Details:   fmt.Sprintf("role %s may not access %s %s", id.Role, req.Method, req.URL.Path),
		})
	}
}
