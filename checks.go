package opts

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// StaticCheck is a pure constraint on a resolved value. cfg gives access to
// the rest of the resolved configuration for cross-option checks.
type StaticCheck func(v Value, cfg *Config) error

// GreaterThan requires an integer or duration strictly above bound.
func GreaterThan(bound any) StaticCheck {
	return func(v Value, _ *Config) error {
		cmp, err := compareTo(v, bound)
		if err != nil {
			return err
		}
		if cmp <= 0 {
			return fmt.Errorf("must be greater than %v", bound)
		}
		return nil
	}
}

// Between requires an integer or duration within [lo, hi].
func Between(lo, hi any) StaticCheck {
	return func(v Value, _ *Config) error {
		low, err := compareTo(v, lo)
		if err != nil {
			return err
		}
		high, err := compareTo(v, hi)
		if err != nil {
			return err
		}
		if low < 0 || high > 0 {
			return fmt.Errorf("must be between %v and %v", lo, hi)
		}
		return nil
	}
}

// compareTo orders v against bound. Durations compare with durations (or
// integer seconds), integers with integers.
func compareTo(v Value, bound any) (int, error) {
	if d, ok := v.Duration(); ok {
		var limit time.Duration
		switch typed := bound.(type) {
		case time.Duration:
			limit = typed
		default:
			seconds, err := cast.ToInt64E(bound)
			if err != nil {
				return 0, fmt.Errorf("cannot compare duration with %v", bound)
			}
			limit = time.Duration(seconds) * time.Second
		}
		return cmpOrdered(d, limit), nil
	}
	if i, ok := v.Int(); ok {
		if _, isDuration := bound.(time.Duration); isDuration {
			return 0, fmt.Errorf("cannot compare integer with duration %v", bound)
		}
		limit, err := cast.ToInt64E(bound)
		if err != nil {
			return 0, fmt.Errorf("cannot compare integer with %v", bound)
		}
		return cmpOrdered(i, limit), nil
	}
	return 0, fmt.Errorf("value %q is not comparable", v.String())
}

func cmpOrdered[T int64 | time.Duration](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// NotEmpty rejects empty strings, mappings and sequences.
func NotEmpty() StaticCheck {
	return func(v Value, _ *Config) error {
		switch v.Shape() {
		case ShapeMapping, ShapeSequence:
			if v.Len() == 0 {
				return errors.New("must not be empty")
			}
		default:
			if s, ok := v.Str(); ok && s == "" {
				return errors.New("must not be empty")
			}
		}
		return nil
	}
}

// All runs checks in order and returns the first failure.
func All(checks ...StaticCheck) StaticCheck {
	return func(v Value, cfg *Config) error {
		for _, check := range checks {
			if check == nil {
				continue
			}
			if err := check(v, cfg); err != nil {
				return err
			}
		}
		return nil
	}
}

// MappingValues applies check to every value of a mapping.
func MappingValues(check StaticCheck) StaticCheck {
	return func(v Value, cfg *Config) error {
		if v.Shape() != ShapeMapping {
			return errors.New("must be a mapping")
		}
		for _, entry := range v.Entries() {
			if err := check(entry.Value, cfg); err != nil {
				return fmt.Errorf("value of %q: %w", entry.Key, err)
			}
		}
		return nil
	}
}

// MappingKeys applies check to every key of a mapping, as a string value.
func MappingKeys(check StaticCheck) StaticCheck {
	return func(v Value, cfg *Config) error {
		if v.Shape() != ShapeMapping {
			return errors.New("must be a mapping")
		}
		for _, entry := range v.Entries() {
			if err := check(scalarValue(KindString, entry.Key), cfg); err != nil {
				return fmt.Errorf("key %q: %w", entry.Key, err)
			}
		}
		return nil
	}
}

// SequenceValues applies check to every element of a sequence.
func SequenceValues(check StaticCheck) StaticCheck {
	return func(v Value, cfg *Config) error {
		if v.Shape() != ShapeSequence {
			return errors.New("must be a sequence")
		}
		for i, elem := range v.Elements() {
			if err := check(elem, cfg); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		return nil
	}
}

// OneOf requires the canonical string form of the value to be one of allowed.
func OneOf(allowed ...string) StaticCheck {
	return func(v Value, _ *Config) error {
		if slices.Contains(allowed, v.String()) {
			return nil
		}
		return fmt.Errorf("must be one of %s", strings.Join(allowed, ", "))
	}
}

// KeysPresentIn requires every key of this mapping to also be a key of the
// mapping option named other.
func KeysPresentIn(other string) StaticCheck {
	return func(v Value, cfg *Config) error {
		if v.Shape() != ShapeMapping {
			return errors.New("must be a mapping")
		}
		target, err := mappingOption(cfg, other)
		if err != nil {
			return err
		}
		for _, entry := range v.Entries() {
			if _, ok := target.Lookup(entry.Key); !ok {
				return fmt.Errorf("key %q is not present in %s", entry.Key, other)
			}
		}
		return nil
	}
}

// UserMappingFor requires the mapping to hold a key equal to the string value
// of the option named userOption.
func UserMappingFor(userOption string) StaticCheck {
	return func(v Value, cfg *Config) error {
		if v.Shape() != ShapeMapping {
			return errors.New("must be a mapping")
		}
		user, err := cfg.Lookup(userOption)
		if err != nil {
			return err
		}
		if _, ok := v.Lookup(user.String()); !ok {
			return fmt.Errorf("no mapping for user %q (%s)", user.String(), userOption)
		}
		return nil
	}
}

func mappingOption(cfg *Config, name string) (Value, error) {
	target, err := cfg.Lookup(name)
	if err != nil {
		return Value{}, err
	}
	if target.Shape() != ShapeMapping {
		return Value{}, fmt.Errorf("%s is not a mapping", name)
	}
	return target, nil
}
