package expression

import (
	"errors"
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ErrEmpty is returned when compiling a blank expression.
var ErrEmpty = errors.New("expression is empty")

// Program is a compiled expression.
type Program struct {
	source  string
	program *vm.Program
}

// Source returns the expression text the program was compiled from.
func (p *Program) Source() string {
	return p.source
}

// Run evaluates the program against env.
func (p *Program) Run(env map[string]any) (any, error) {
	out, err := expr.Run(p.program, env)
	if err != nil {
		return nil, fmt.Errorf("eval %q: %w", p.source, err)
	}
	return out, nil
}

// RunBool evaluates the program and requires a boolean result.
func (p *Program) RunBool(env map[string]any) (bool, error) {
	out, err := p.Run(env)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("expression %q returned %T, want bool", p.source, out)
	}
	return b, nil
}

var (
	cacheMu sync.RWMutex
	cache   = make(map[string]*Program)
)

// Compile compiles source into a Program, reusing a cached program when the
// same source was compiled before.
func Compile(source string) (*Program, error) {
	if source == "" {
		return nil, ErrEmpty
	}

	cacheMu.RLock()
	if p, ok := cache[source]; ok {
		cacheMu.RUnlock()
		return p, nil
	}
	cacheMu.RUnlock()

	// No static env: identifiers resolve against the map passed to Run.
	program, err := expr.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", source, err)
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()
	if existing, ok := cache[source]; ok {
		return existing, nil
	}
	p := &Program{source: source, program: program}
	cache[source] = p
	return p, nil
}

// MustCompile is like Compile but panics on error. Intended for tests and
// package-level programs.
func MustCompile(source string) *Program {
	p, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return p
}
