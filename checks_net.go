package opts

import (
	"errors"
	"fmt"
	"net/netip"
)

// IPAddressCheck requires a valid IP address.
func IPAddressCheck() StaticCheck {
	return func(v Value, _ *Config) error {
		if a, ok := v.Addr(); ok && a.IsValid() {
			return nil
		}
		if _, err := toAddr(v.Native()); err != nil {
			return fmt.Errorf("not a valid IP address: %w", err)
		}
		return nil
	}
}

// NetworkIP requires a valid network whose address may have host bits set,
// as used for interface addresses like 10.66.67.1/24.
func NetworkIP() StaticCheck {
	return func(v Value, _ *Config) error {
		p, err := networkOf(v)
		if err != nil {
			return err
		}
		if !p.Addr().IsValid() {
			return errors.New("network has no address")
		}
		return nil
	}
}

// NetworkAddress requires a valid network with all host bits zero.
func NetworkAddress() StaticCheck {
	return func(v Value, _ *Config) error {
		p, err := networkOf(v)
		if err != nil {
			return err
		}
		if p.Masked() != p {
			return fmt.Errorf("%s has host bits set, expected %s", p, p.Masked())
		}
		return nil
	}
}

// IPRangeInNetwork requires the range to lie inside the network held by the
// option named network.
func IPRangeInNetwork(network string) StaticCheck {
	return func(v Value, cfg *Config) error {
		r, ok := v.Range()
		if !ok {
			return errors.New("must be an IP range")
		}
		other, err := cfg.Lookup(network)
		if err != nil {
			return err
		}
		p, err := networkOf(other)
		if err != nil {
			return fmt.Errorf("%s: %w", network, err)
		}
		if !r.Within(p) {
			return fmt.Errorf("range %s is not within %s (%s)", r, p.Masked(), network)
		}
		return nil
	}
}

func networkOf(v Value) (netip.Prefix, error) {
	if p, ok := v.Prefix(); ok {
		return p, nil
	}
	if !v.IsScalar() {
		return netip.Prefix{}, errors.New("not a valid IP network")
	}
	p, err := toPrefix(v.Native())
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("not a valid IP network: %w", err)
	}
	return p, nil
}
