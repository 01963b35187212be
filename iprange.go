package opts

import (
	"fmt"
	"net/netip"
	"strings"
)

// IPRange is an inclusive range of addresses of a single family.
type IPRange struct {
	First netip.Addr
	Last  netip.Addr
}

// ParseIPRange parses "first-last".
func ParseIPRange(s string) (IPRange, error) {
	first, last, ok := strings.Cut(s, "-")
	if !ok {
		return IPRange{}, fmt.Errorf("ip range %q must have the form first-last", s)
	}
	return NewIPRange(strings.TrimSpace(first), strings.TrimSpace(last))
}

// NewIPRange builds a range from two address strings.
func NewIPRange(first, last string) (IPRange, error) {
	a, err := netip.ParseAddr(first)
	if err != nil {
		return IPRange{}, err
	}
	b, err := netip.ParseAddr(last)
	if err != nil {
		return IPRange{}, err
	}
	if a.BitLen() != b.BitLen() {
		return IPRange{}, fmt.Errorf("ip range %s-%s mixes address families", a, b)
	}
	if b.Less(a) {
		return IPRange{}, fmt.Errorf("ip range %s-%s ends before it starts", a, b)
	}
	return IPRange{First: a, Last: b}, nil
}

// MustIPRange is NewIPRange for declarations; it panics on error.
func MustIPRange(first, last string) IPRange {
	r, err := NewIPRange(first, last)
	if err != nil {
		panic(err)
	}
	return r
}

// Within reports whether the whole range lies inside network.
func (r IPRange) Within(network netip.Prefix) bool {
	masked := network.Masked()
	return masked.Contains(r.First) && masked.Contains(r.Last)
}

func (r IPRange) String() string {
	return r.First.String() + "-" + r.Last.String()
}
