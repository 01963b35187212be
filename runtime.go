package opts

import (
	"context"
	"errors"
	"fmt"
)

// RuntimeCheck is a constraint that needs the live host, asked through probe.
type RuntimeCheck func(ctx context.Context, v Value, probe Probe) error

// FileExists requires the path to name an existing regular file.
func FileExists() RuntimeCheck {
	return stringCheck(Probe.FileExists)
}

// DirectoryExists requires the path to name an existing directory.
func DirectoryExists() RuntimeCheck {
	return stringCheck(Probe.DirectoryExists)
}

// FileCreatable requires the path to be writable as a file.
func FileCreatable() RuntimeCheck {
	return stringCheck(Probe.FileCreatable)
}

// UserExists requires a user with this name or id.
func UserExists() RuntimeCheck {
	return stringCheck(Probe.UserExists)
}

// GroupExists requires a group with this name or id.
func GroupExists() RuntimeCheck {
	return stringCheck(Probe.GroupExists)
}

// InterfaceExists requires a network interface with this name.
func InterfaceExists() RuntimeCheck {
	return stringCheck(Probe.InterfaceExists)
}

// AddressExists requires the address, or the address part of a network, to
// be configured on some interface.
func AddressExists() RuntimeCheck {
	return func(ctx context.Context, v Value, probe Probe) error {
		if a, ok := v.Addr(); ok {
			return probe.AddressExists(ctx, a)
		}
		if p, ok := v.Prefix(); ok {
			return probe.AddressExists(ctx, p.Addr())
		}
		a, err := toAddr(v.Native())
		if err != nil {
			return fmt.Errorf("not an IP address: %w", err)
		}
		return probe.AddressExists(ctx, a)
	}
}

// AllRuntime runs checks in order and returns the first failure.
func AllRuntime(checks ...RuntimeCheck) RuntimeCheck {
	return func(ctx context.Context, v Value, probe Probe) error {
		for _, check := range checks {
			if check == nil {
				continue
			}
			if err := check(ctx, v, probe); err != nil {
				return err
			}
		}
		return nil
	}
}

func stringCheck(query func(Probe, context.Context, string) error) RuntimeCheck {
	return func(ctx context.Context, v Value, probe Probe) error {
		if !v.IsScalar() {
			return errors.New("expected a scalar value")
		}
		return query(probe, ctx, v.String())
	}
}
