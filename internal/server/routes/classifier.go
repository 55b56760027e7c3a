// Package routes implements the declarative route classifier: an ordered
// table of method+pattern rules deciding which endpoints bypass user-token
// validation and which require a service principal. Both the request
// authenticator and the authorization layer consult it.
package routes

import (
	"fmt"
	"regexp"
)

// Class is a route's access classification.
type Class int

const (
	// Authenticated routes require some validated principal. This is the
	// default for any path not matched by the table.
	Authenticated Class = iota

	// Public routes are served with no identity attached.
	Public

	// Service routes are reachable only by trusted machine callers.
	Service
)

func (c Class) String() string {
	switch c {
	case Public:
		return "public"
	case Service:
		return "service"
	default:
		return "authenticated"
	}
}

// Rule is one classification entry. Method "*" matches any method; Pattern
// is a compiled, anchored expression over the request path.
type Rule struct {
	Method  string
	Pattern *regexp.Regexp
	Class   Class
}

// CompileRule builds a Rule from its textual form, anchoring the pattern so
// partial path matches cannot widen a rule's reach.
func CompileRule(method, pattern, class string) (Rule, error) {
	var c Class
	switch class {
	case "public":
		c = Public
	case "service":
		c = Service
	case "authenticated":
		c = Authenticated
	default:
		return Rule{}, fmt.Errorf("unknown route class %q", class)
	}
	re, err := regexp.Compile("^" + pattern + "$")
	if err != nil {
		return Rule{}, fmt.Errorf("route pattern %q: %w", pattern, err)
	}
	return Rule{Method: method, Pattern: re, Class: c}, nil
}

func mustRule(method, pattern string, class Class) Rule {
	return Rule{Method: method, Pattern: regexp.MustCompile("^" + pattern + "$"), Class: class}
}

// builtin is the default table. Order matters: the first matching rule
// governs, so more specific patterns come first.
var builtin = []Rule{
	// account creation and email verification
	mustRule("POST", "/api/v1/users", Public),
	mustRule("POST", "/api/v1/users/verify", Public),
	mustRule("POST", "/api/v1/users/verify/resend", Public),

	// session lifecycle
	mustRule("POST", "/api/v1/auth/login", Public),
	mustRule("POST", "/api/v1/auth/external", Public),
	mustRule("POST", "/api/v1/auth/refresh", Public),
	mustRule("POST", "/api/v1/auth/logout", Public),

	// password recovery
	mustRule("POST", "/api/v1/auth/recovery", Public),
	mustRule("POST", "/api/v1/auth/recovery/confirm", Public),

	// public catalog
	mustRule("GET", "/api/v1/profiles/[a-f0-9]+", Public),
	mustRule("GET", "/api/v1/artists/[0-9]+", Public),
	mustRule("GET", "/api/v1/trends/.*", Public),

	// sibling-service surface
	mustRule("*", "/api/v1/internal/.*", Service),

	// operational
	mustRule("GET", "/health", Public),
}

// Classifier evaluates rules once per request. It is immutable after
// construction and safe for concurrent use.
type Classifier struct {
	rules []Rule
}

// NewClassifier returns a classifier with extra (operator-configured) rules
// prepended to the built-in table, so they take precedence.
func NewClassifier(extra ...Rule) *Classifier {
	rules := make([]Rule, 0, len(extra)+len(builtin))
	rules = append(rules, extra...)
	rules = append(rules, builtin...)
	return &Classifier{rules: rules}
}

// Classify returns the class of the first rule matching (method, path), or
// Authenticated when none matches.
func (c *Classifier) Classify(method, path string) Class {
	for _, r := range c.rules {
		if r.Method != "*" && r.Method != method {
			continue
		}
		if r.Pattern.MatchString(path) {
			return r.Class
		}
	}
	return Authenticated
}
