package webpack

import (
	"encoding/json"
	"fmt"

	"github.com/dlclark/regexp2"
)

// Pattern is a JavaScript regular expression used as a rule condition.
//
// Webpack evaluates rule conditions with the JavaScript engine, so patterns
// are compiled with ECMAScript semantics (lookahead and back-references
// included) rather than Go's RE2. In JSON a pattern is encoded as a regex
// literal, e.g. "/\\.css$/".
type Pattern struct {
	source string
	re     *regexp2.Regexp
}

// NewPattern compiles source, which is written without the surrounding slashes.
func NewPattern(source string) (*Pattern, error) {
	re, err := regexp2.Compile(source, regexp2.ECMAScript)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", source, err)
	}
	return &Pattern{source: source, re: re}, nil
}

// MustPattern is like NewPattern but panics on an invalid expression.
func MustPattern(source string) *Pattern {
	p, err := NewPattern(source)
	if err != nil {
		panic(err)
	}
	return p
}

// Source returns the expression without delimiters.
func (p *Pattern) Source() string {
	return p.source
}

// MatchString reports whether s contains a match of the pattern.
func (p *Pattern) MatchString(s string) bool {
	ok, err := p.re.MatchString(s)
	return err == nil && ok
}

func (p *Pattern) String() string {
	return "/" + p.source + "/"
}

func (p *Pattern) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}
