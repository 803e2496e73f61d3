package env

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/abdul-hamid-achik/hitverb/packages/builtin"
)

var variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// WarnFunc is a function type for handling warnings
type WarnFunc func(format string, args ...any)

// Resolver expands {{...}} templates in command input. A template is one of
// {{name}} for a variable, {{$NAME}} for a process environment variable, or
// {{fn(args)}} for a builtin function. Unknown templates are left in place.
type Resolver struct {
	variables map[string]any
	funcs     *builtin.Registry
	warnFunc  WarnFunc
}

func NewResolver() *Resolver {
	return &Resolver{
		variables: make(map[string]any),
		funcs:     builtin.NewRegistry(),
	}
}

// SetWarnFunc sets a function to be called for unresolved templates
func (r *Resolver) SetWarnFunc(fn WarnFunc) {
	r.warnFunc = fn
}

func (r *Resolver) warn(format string, args ...any) {
	if r.warnFunc != nil {
		r.warnFunc(format, args...)
	}
}

func (r *Resolver) SetVariables(vars map[string]any) {
	for k, v := range vars {
		r.variables[k] = v
	}
}

func (r *Resolver) SetVariable(name string, value any) {
	r.variables[name] = value
}

func (r *Resolver) lookup(expr string) (string, bool) {
	if strings.HasPrefix(expr, "$") {
		return os.LookupEnv(expr[1:])
	}
	if strings.Contains(expr, "(") {
		if result, ok := r.funcs.Call(expr); ok {
			return fmt.Sprintf("%v", result), true
		}
		return "", false
	}
	if val, ok := r.variables[expr]; ok {
		return fmt.Sprintf("%v", val), true
	}
	return "", false
}

func (r *Resolver) Resolve(input string) string {
	return variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		expr := strings.TrimSpace(match[2 : len(match)-2])
		if val, ok := r.lookup(expr); ok {
			return val
		}
		r.warn("unresolved template: %s", expr)
		return match
	})
}

// ResolveAll resolves every element of values.
func (r *Resolver) ResolveAll(values []string) []string {
	if values == nil {
		return nil
	}
	result := make([]string, len(values))
	for i, v := range values {
		result[i] = r.Resolve(v)
	}
	return result
}

// GetUnresolvedVariables lists the template expressions in input that
// would be left in place by Resolve, in order of appearance.
func (r *Resolver) GetUnresolvedVariables(input string) []string {
	var unresolved []string
	for _, m := range variablePattern.FindAllStringSubmatch(input, -1) {
		expr := strings.TrimSpace(m[1])
		if strings.Contains(expr, "(") {
			// Function calls may have side effects; only check the name is known.
			if r.funcs.Has(expr) {
				continue
			}
		} else if _, ok := r.lookup(expr); ok {
			continue
		}
		unresolved = append(unresolved, expr)
	}
	return unresolved
}

func (r *Resolver) HasUnresolvedVariables(input string) bool {
	return len(r.GetUnresolvedVariables(input)) > 0
}
