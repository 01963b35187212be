package opts

import (
	"fmt"
	"sort"
)

// EvalContext gives a deferred default access to values resolved so far.
// Lookup only succeeds for names the deferred declared in References.
type EvalContext interface {
	Option() string
	Lookup(name string) (Value, error)
	Evaluate(engine string, ctx RuleContext, expression string) (any, error)
}

// Deferred is a default computed from other options at resolution time.
type Deferred interface {
	References() []string
	Evaluate(ctx EvalContext) (any, error)
}

type alias struct {
	name string
}

// Alias defaults to the value of another option, forwarded verbatim.
func Alias(name string) Deferred {
	return alias{name: name}
}

func (a alias) References() []string { return []string{a.name} }

func (a alias) Evaluate(ctx EvalContext) (any, error) {
	return ctx.Lookup(a.name)
}

func (a alias) String() string { return "alias(" + a.name + ")" }

type template struct {
	pattern    string
	positional []string
	keyword    map[string]string
	keys       []string
	refs       []string
}

// Template defaults to pattern formatted with the string form of other
// options. positional binds {} and {N}; keyword binds {key} to an option name.
func Template(pattern string, positional []string, keyword map[string]string) Deferred {
	t := template{
		pattern:    pattern,
		positional: append([]string(nil), positional...),
		keyword:    make(map[string]string, len(keyword)),
	}
	seen := map[string]bool{}
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			t.refs = append(t.refs, name)
		}
	}
	for _, name := range t.positional {
		add(name)
	}
	for key, name := range keyword {
		t.keyword[key] = name
		t.keys = append(t.keys, key)
	}
	sort.Strings(t.keys)
	for _, key := range t.keys {
		add(t.keyword[key])
	}
	return t
}

// Format is Template with positional references only.
func Format(pattern string, names ...string) Deferred {
	return Template(pattern, names, nil)
}

func (t template) References() []string { return append([]string(nil), t.refs...) }

func (t template) Evaluate(ctx EvalContext) (any, error) {
	args := make([]string, len(t.positional))
	for i, name := range t.positional {
		v, err := ctx.Lookup(name)
		if err != nil {
			return nil, err
		}
		args[i] = v.String()
	}
	kwargs := make(map[string]string, len(t.keyword))
	for _, key := range t.keys {
		v, err := ctx.Lookup(t.keyword[key])
		if err != nil {
			return nil, err
		}
		kwargs[key] = v.String()
	}
	return formatBraces(t.pattern, args, kwargs)
}

func (t template) String() string { return fmt.Sprintf("format(%q)", t.pattern) }

type expression struct {
	expr string
	refs []string
}

// Expression defaults to the result of an expr-lang program. Each referenced
// option is bound by name; functions come from the resolver's function
// registry.
func Expression(expr string, refs ...string) Deferred {
	return expression{expr: expr, refs: append([]string(nil), refs...)}
}

func (e expression) References() []string { return append([]string(nil), e.refs...) }

func (e expression) Evaluate(ctx EvalContext) (any, error) {
	env := make(map[string]any, len(e.refs))
	for _, name := range e.refs {
		v, err := ctx.Lookup(name)
		if err != nil {
			return nil, err
		}
		env[name] = v.Plain()
	}
	return ctx.Evaluate("expr", RuleContext{Option: ctx.Option(), Config: env}, e.expr)
}

func (e expression) String() string { return fmt.Sprintf("expr(%q)", e.expr) }

// ComputeFunc derives a default from resolved references keyed by name.
type ComputeFunc func(values map[string]Value) (any, error)

type compute struct {
	fn   ComputeFunc
	refs []string
}

// Compute defaults to the result of fn over the referenced options.
func Compute(fn ComputeFunc, refs ...string) Deferred {
	return compute{fn: fn, refs: append([]string(nil), refs...)}
}

func (c compute) References() []string { return append([]string(nil), c.refs...) }

func (c compute) Evaluate(ctx EvalContext) (any, error) {
	if c.fn == nil {
		return nil, fmt.Errorf("compute function is nil")
	}
	values := make(map[string]Value, len(c.refs))
	for _, name := range c.refs {
		v, err := ctx.Lookup(name)
		if err != nil {
			return nil, err
		}
		values[name] = v
	}
	return c.fn(values)
}

func (c compute) String() string { return "compute" }
