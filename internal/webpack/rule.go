package webpack

import (
	"path/filepath"
	"slices"
	"strings"
)

// UseEntry is a single loader with its options.
type UseEntry struct {
	Loader  string `json:"loader"`
	Options any    `json:"options,omitempty"`
}

// Pipeline is an ordered loader chain in webpack declaration order.
//
// Webpack applies a chain from the last entry to the first, so the entry
// declared last sees the raw file and the entry declared first produces the
// final module. Builders must append preprocessors at the end.
type Pipeline []UseEntry

// Applied returns the chain in the order the loaders run over a file.
func (p Pipeline) Applied() Pipeline {
	applied := slices.Clone(p)
	slices.Reverse(applied)
	return applied
}

// Loaders returns the loader identifiers in declaration order.
func (p Pipeline) Loaders() []string {
	loaders := make([]string, 0, len(p))
	for _, u := range p {
		loaders = append(loaders, u.Loader)
	}
	return loaders
}

// Enforce values for pre and post rules.
const (
	EnforcePre  = "pre"
	EnforcePost = "post"
)

// Rule matches module resources and describes how they are transformed.
type Rule struct {
	Test    *Pattern `json:"test,omitempty"`
	Enforce string   `json:"enforce,omitempty"`
	// Include holds absolute directory prefixes.
	Include     []string   `json:"include,omitempty"`
	Exclude     []*Pattern `json:"exclude,omitempty"`
	Loader      string     `json:"loader,omitempty"`
	Options     any        `json:"options,omitempty"`
	Use         Pipeline   `json:"use,omitempty"`
	OneOf       []Rule     `json:"oneOf,omitempty"`
	SideEffects *bool      `json:"sideEffects,omitempty"`
}

// Matches reports whether the rule's own conditions accept resource. Nested
// oneOf rules are not consulted.
func (r Rule) Matches(resource string) bool {
	if r.Test != nil && !r.Test.MatchString(resource) {
		return false
	}

	if len(r.Include) > 0 {
		included := false
		for _, dir := range r.Include {
			if withinDir(dir, resource) {
				included = true
				break
			}
		}
		if !included {
			return false
		}
	}

	for _, ex := range r.Exclude {
		if ex.MatchString(resource) {
			return false
		}
	}

	return true
}

// Pipeline returns the loader chain of the rule, folding the single loader
// form into a one element chain.
func (r Rule) Pipeline() Pipeline {
	if len(r.Use) > 0 {
		return r.Use
	}
	if r.Loader != "" {
		return Pipeline{{Loader: r.Loader, Options: r.Options}}
	}
	return nil
}

// FirstMatch returns the index of the first rule in a oneOf group that
// accepts resource, or -1 when none does. Earlier rules always win.
func FirstMatch(rules []Rule, resource string) int {
	for i, r := range rules {
		if r.Matches(resource) {
			return i
		}
	}
	return -1
}

func withinDir(dir, resource string) bool {
	rel, err := filepath.Rel(dir, resource)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
