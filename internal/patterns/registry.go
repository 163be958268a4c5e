// Package patterns holds the fixed library of named extraction patterns and
// the two ways to query them: substring search over free text and full-match
// validation of a single candidate.
//
// Grammars run on a backtracking engine with Unicode-aware \w, \d, \s and
// \b, and $ also matches before a final newline. Every match is bounded by
// MatchTimeout.
//
// Every pattern is compiled once, when the package is loaded, and is
// read-only afterwards, so all functions here are safe for concurrent use.
package patterns

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// MatchTimeout bounds a single search or full match.
const MatchTimeout = 2 * time.Second

// Pattern is one compiled entry of the registry.
type Pattern struct {
	name   Name
	search *regexp2.Regexp
	full   *regexp2.Regexp
	filter *literalSet
}

func (p *Pattern) Name() Name {
	return p.name
}

func (p *Pattern) String() string {
	return p.search.String()
}

// FindAll returns every non-overlapping match in text, left to right.
// The result is never nil.
func (p *Pattern) FindAll(text string) ([]string, error) {
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("%s: %w", p.name, ErrInvalidInput)
	}
	if !p.filter.containsAny(text) {
		return []string{}, nil
	}

	matches := []string{}
	m, err := p.search.FindStringMatch(text)
	for err == nil && m != nil {
		matches = append(matches, m.String())
		m, err = p.search.FindNextMatch(m)
	}
	if err != nil {
		return nil, p.matchError(err)
	}
	return matches, nil
}

// IsMatch reports whether the whole candidate matches the pattern.
func (p *Pattern) IsMatch(candidate string) (bool, error) {
	if !utf8.ValidString(candidate) {
		return false, fmt.Errorf("%s: %w", p.name, ErrInvalidInput)
	}
	if !p.filter.containsAny(candidate) {
		return false, nil
	}
	ok, err := p.full.MatchString(candidate)
	if err != nil {
		return false, p.matchError(err)
	}
	return ok, nil
}

// matchError drops the engine error, whose text quotes the input.
func (p *Pattern) matchError(error) error {
	return fmt.Errorf("%s: %w", p.name, ErrMatchTimeout)
}

// Registry maps pattern names to compiled patterns.
type Registry struct {
	patterns map[Name]*Pattern
	order    []Name
}

// Default holds the built-in patterns. A grammar that fails to compile
// panics here, before any caller can observe a partial registry.
var Default = MustCompile(Builtin())

func Compile(defs []Definition) (*Registry, error) {
	if len(defs) == 0 {
		return nil, errors.New("at least one pattern definition is required")
	}

	r := &Registry{
		patterns: make(map[Name]*Pattern, len(defs)),
		order:    make([]Name, 0, len(defs)),
	}
	for _, def := range defs {
		if def.Name == "" {
			return nil, errors.New("pattern name is required")
		}
		if _, exists := r.patterns[def.Name]; exists {
			return nil, fmt.Errorf("pattern %s is duplicated", def.Name)
		}

		p, err := compilePattern(def)
		if err != nil {
			return nil, err
		}
		r.patterns[def.Name] = p
		r.order = append(r.order, def.Name)
	}
	return r, nil
}

func MustCompile(defs []Definition) *Registry {
	r, err := Compile(defs)
	if err != nil {
		panic(err)
	}
	return r
}

func compilePattern(def Definition) (*Pattern, error) {
	search, err := regexp2.Compile(def.Grammar, regexp2.None)
	if err != nil {
		return nil, &CompileError{Name: def.Name, Err: err}
	}
	full, err := regexp2.Compile(`\A(?:`+def.Grammar+`)\z`, regexp2.None)
	if err != nil {
		return nil, &CompileError{Name: def.Name, Err: err}
	}
	search.MatchTimeout = MatchTimeout
	full.MatchTimeout = MatchTimeout
	filter, err := newLiteralSet(def.Literals)
	if err != nil {
		return nil, &CompileError{Name: def.Name, Err: err}
	}
	return &Pattern{name: def.Name, search: search, full: full, filter: filter}, nil
}

// Names returns the registered names in definition order.
func (r *Registry) Names() []Name {
	return append([]Name(nil), r.order...)
}

func (r *Registry) Lookup(name Name) (*Pattern, bool) {
	p, ok := r.patterns[name]
	return p, ok
}

func (r *Registry) pattern(name Name) (*Pattern, error) {
	p, ok := r.patterns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
	}
	return p, nil
}

func (r *Registry) FindAll(name Name, text string) ([]string, error) {
	p, err := r.pattern(name)
	if err != nil {
		return nil, err
	}
	return p.FindAll(text)
}

// FindAllSet runs FindAll for each name. An empty set means every
// registered pattern.
func (r *Registry) FindAllSet(names []Name, text string) (map[Name][]string, error) {
	if len(names) == 0 {
		names = r.order
	}
	if !utf8.ValidString(text) {
		return nil, ErrInvalidInput
	}

	out := make(map[Name][]string, len(names))
	for _, name := range names {
		matches, err := r.FindAll(name, text)
		if err != nil {
			return nil, err
		}
		out[name] = matches
	}
	return out, nil
}

func (r *Registry) IsMatch(name Name, candidate string) (bool, error) {
	p, err := r.pattern(name)
	if err != nil {
		return false, err
	}
	return p.IsMatch(candidate)
}

// ValidateExamples full-matches every candidate under its pattern name.
// Keys that do not name a registered pattern are skipped, and so is the
// combined time pattern: batches name time_24h or time_12h.
func (r *Registry) ValidateExamples(examples map[string][]string) (map[string][]bool, error) {
	results := make(map[string][]bool, len(examples))
	for key, values := range examples {
		if Name(key) == Time {
			continue
		}
		p, ok := r.patterns[Name(key)]
		if !ok {
			continue
		}
		verdicts := make([]bool, 0, len(values))
		for _, v := range values {
			ok, err := p.IsMatch(v)
			if err != nil {
				return nil, err
			}
			verdicts = append(verdicts, ok)
		}
		results[key] = verdicts
	}
	return results, nil
}

// FindAll searches text with a built-in pattern.
func FindAll(name Name, text string) ([]string, error) {
	return Default.FindAll(name, text)
}

// IsMatch full-matches candidate against a built-in pattern.
func IsMatch(name Name, candidate string) (bool, error) {
	return Default.IsMatch(name, candidate)
}

// FindAllInText runs every extraction category of the built-in registry.
func FindAllInText(text string) (Extraction, error) {
	return Default.FindAllInText(text)
}
