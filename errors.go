package opts

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a ConfigError.
type ErrorKind int

const (
	KindDuplicateOption ErrorKind = iota + 1
	KindUnknownOption
	KindTypeMismatch
	KindMissingOption
	KindCyclicDependency
	KindStaticCheck
	KindRuntimeCheck
	KindEvaluation
)

func (k ErrorKind) String() string {
	switch k {
	case KindDuplicateOption:
		return "duplicate option"
	case KindUnknownOption:
		return "unknown option"
	case KindTypeMismatch:
		return "type mismatch"
	case KindMissingOption:
		return "missing option"
	case KindCyclicDependency:
		return "cyclic dependency"
	case KindStaticCheck:
		return "static check failed"
	case KindRuntimeCheck:
		return "runtime check failed"
	case KindEvaluation:
		return "deferred default failed"
	default:
		return "config error"
	}
}

// Sentinels matched by ConfigError.Is so callers can use errors.Is.
var (
	ErrDuplicateOption   = errors.New("opts: duplicate option")
	ErrUnknownOption     = errors.New("opts: unknown option")
	ErrTypeMismatch      = errors.New("opts: type mismatch")
	ErrMissingOption     = errors.New("opts: missing option")
	ErrCyclicDependency  = errors.New("opts: cyclic dependency")
	ErrStaticCheck       = errors.New("opts: static check failed")
	ErrRuntimeCheck      = errors.New("opts: runtime check failed")
	ErrEvaluation        = errors.New("opts: deferred default failed")
	ErrRegistrySealed    = errors.New("opts: registry is sealed")
	ErrOptionNameMissing = errors.New("opts: option name must not be empty")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindDuplicateOption:
		return ErrDuplicateOption
	case KindUnknownOption:
		return ErrUnknownOption
	case KindTypeMismatch:
		return ErrTypeMismatch
	case KindMissingOption:
		return ErrMissingOption
	case KindCyclicDependency:
		return ErrCyclicDependency
	case KindStaticCheck:
		return ErrStaticCheck
	case KindRuntimeCheck:
		return ErrRuntimeCheck
	case KindEvaluation:
		return ErrEvaluation
	default:
		return nil
	}
}

// ConfigError carries the offending option, a message and an optional cause.
// RequiredBy lists the dependents (closest first) through which the option was
// reached while resolving deferred defaults.
type ConfigError struct {
	Kind       ErrorKind
	Option     string
	Message    string
	RequiredBy []string
	Cycle      []string
	Cause      error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString("opts: ")
	b.WriteString(e.Kind.String())
	if e.Option != "" {
		fmt.Fprintf(&b, " %s", e.Option)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is reports whether target is the sentinel for e's kind.
func (e *ConfigError) Is(target error) bool {
	if e == nil {
		return false
	}
	sentinel := e.Kind.sentinel()
	return sentinel != nil && target == sentinel
}

// DuplicateOptionError reports a second registration under name.
func DuplicateOptionError(name string) *ConfigError {
	return &ConfigError{Kind: KindDuplicateOption, Option: name, Message: "option is already registered"}
}

// UnknownOptionError reports a lookup or reference to an unregistered name.
func UnknownOptionError(name string) *ConfigError {
	return &ConfigError{Kind: KindUnknownOption, Option: name, Message: "option is not registered"}
}

// TypeMismatchError reports a value that cannot be coerced to the declared type.
func TypeMismatchError(name string, declared Type, cause error) *ConfigError {
	return &ConfigError{
		Kind:    KindTypeMismatch,
		Option:  name,
		Message: fmt.Sprintf("cannot coerce value to %s", declared),
		Cause:   cause,
	}
}

// MissingOptionError reports an option with neither an override nor a default.
func MissingOptionError(name string) *ConfigError {
	return &ConfigError{Kind: KindMissingOption, Option: name, Message: "option is missing"}
}

// CyclicDependencyError reports a reference cycle between deferred defaults.
func CyclicDependencyError(cycle []string) *ConfigError {
	name := ""
	if len(cycle) > 0 {
		name = cycle[0]
	}
	return &ConfigError{
		Kind:    KindCyclicDependency,
		Option:  name,
		Message: strings.Join(cycle, " -> "),
		Cycle:   append([]string(nil), cycle...),
	}
}

// StaticCheckError reports a failed pure constraint.
func StaticCheckError(name, message string) *ConfigError {
	return &ConfigError{Kind: KindStaticCheck, Option: name, Message: message}
}

// RuntimeCheckError reports a failed environment constraint.
func RuntimeCheckError(name, message string) *ConfigError {
	return &ConfigError{Kind: KindRuntimeCheck, Option: name, Message: message}
}

// EvaluationFailedError reports a deferred default that could not be computed.
func EvaluationFailedError(name string, cause error) *ConfigError {
	return &ConfigError{Kind: KindEvaluation, Option: name, Cause: cause}
}

// requiredBy records dependent as the option that needed e's option. Missing
// options get a message naming the closest dependent.
func (e *ConfigError) requiredBy(dependent string) *ConfigError {
	if e == nil || dependent == "" {
		return e
	}
	e.RequiredBy = append(e.RequiredBy, dependent)
	if e.Kind == KindMissingOption && len(e.RequiredBy) == 1 {
		e.Message = fmt.Sprintf("option is missing (required by %s)", dependent)
	}
	return e
}

// EvaluationError captures expression engine metadata alongside the
// originating error.
type EvaluationError struct {
	Engine string
	Expr   string
	Option string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("opts: %s evaluator %s option=%s: %v", e.Engine, describeExpression(e.Expr), e.Option, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "opts:") {
		return err
	}
	return fmt.Errorf("opts: %s evaluator: %w", engine, err)
}

func wrapEvaluationError(engine, expr, option string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Option == "" {
			evalErr.Option = option
		}
		return evalErr
	}

	return &EvaluationError{
		Engine: engine,
		Expr:   expr,
		Option: option,
		Err:    err,
	}
}
