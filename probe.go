package opts

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"os/user"
	"path/filepath"

	"github.com/spf13/afero"
)

// Probe answers questions about the host a configuration will run on. Each
// method returns nil when the condition holds.
type Probe interface {
	FileExists(ctx context.Context, path string) error
	DirectoryExists(ctx context.Context, path string) error
	FileCreatable(ctx context.Context, path string) error
	UserExists(ctx context.Context, name string) error
	GroupExists(ctx context.Context, name string) error
	InterfaceExists(ctx context.Context, name string) error
	AddressExists(ctx context.Context, addr netip.Addr) error
}

// NetInterface is a network interface and the addresses assigned to it.
type NetInterface struct {
	Name  string
	Addrs []netip.Prefix
}

// SystemProbe queries the local system. The filesystem goes through afero so
// the probe can run against an in-memory tree.
type SystemProbe struct {
	fs          afero.Fs
	lookupUser  func(name string) error
	lookupGroup func(name string) error
	interfaces  func() ([]NetInterface, error)
}

// ProbeOption configures a SystemProbe.
type ProbeOption func(*SystemProbe)

// WithFs replaces the filesystem, afero.NewOsFs by default.
func WithFs(fs afero.Fs) ProbeOption {
	return func(p *SystemProbe) {
		if fs != nil {
			p.fs = fs
		}
	}
}

// WithUserLookup replaces the user database lookup.
func WithUserLookup(lookup func(name string) error) ProbeOption {
	return func(p *SystemProbe) {
		if lookup != nil {
			p.lookupUser = lookup
		}
	}
}

// WithGroupLookup replaces the group database lookup.
func WithGroupLookup(lookup func(name string) error) ProbeOption {
	return func(p *SystemProbe) {
		if lookup != nil {
			p.lookupGroup = lookup
		}
	}
}

// WithInterfaces replaces interface enumeration.
func WithInterfaces(list func() ([]NetInterface, error)) ProbeOption {
	return func(p *SystemProbe) {
		if list != nil {
			p.interfaces = list
		}
	}
}

// NewSystemProbe returns a probe backed by the OS unless options say
// otherwise.
func NewSystemProbe(options ...ProbeOption) *SystemProbe {
	p := &SystemProbe{
		fs:          afero.NewOsFs(),
		lookupUser:  lookupUser,
		lookupGroup: lookupGroup,
		interfaces:  systemInterfaces,
	}
	for _, option := range options {
		if option != nil {
			option(p)
		}
	}
	return p
}

func (p *SystemProbe) FileExists(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := p.fs.Stat(path)
	if err != nil {
		return fmt.Errorf("file %s does not exist", path)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

func (p *SystemProbe) DirectoryExists(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ok, err := afero.DirExists(p.fs, path)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("directory %s does not exist", path)
	}
	return nil
}

// FileCreatable holds when path is an existing regular file or its parent
// directory exists.
func (p *SystemProbe) FileCreatable(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := p.fs.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return fmt.Errorf("%s is a directory", path)
	case err == nil:
		return nil
	case !errors.Is(err, os.ErrNotExist):
		return err
	}
	parent := filepath.Dir(path)
	ok, err := afero.DirExists(p.fs, parent)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("cannot create %s: directory %s does not exist", path, parent)
	}
	return nil
}

func (p *SystemProbe) UserExists(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.lookupUser(name)
}

func (p *SystemProbe) GroupExists(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.lookupGroup(name)
}

func (p *SystemProbe) InterfaceExists(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ifaces, err := p.interfaces()
	if err != nil {
		return err
	}
	for _, iface := range ifaces {
		if iface.Name == name {
			return nil
		}
	}
	return fmt.Errorf("interface %s does not exist", name)
}

func (p *SystemProbe) AddressExists(ctx context.Context, addr netip.Addr) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ifaces, err := p.interfaces()
	if err != nil {
		return err
	}
	for _, iface := range ifaces {
		for _, assigned := range iface.Addrs {
			if assigned.Addr() == addr {
				return nil
			}
		}
	}
	return fmt.Errorf("address %s is not configured on any interface", addr)
}

func lookupUser(name string) error {
	if _, err := user.Lookup(name); err != nil {
		if _, idErr := user.LookupId(name); idErr == nil {
			return nil
		}
		return fmt.Errorf("user %s does not exist", name)
	}
	return nil
}

func lookupGroup(name string) error {
	if _, err := user.LookupGroup(name); err != nil {
		if _, idErr := user.LookupGroupId(name); idErr == nil {
			return nil
		}
		return fmt.Errorf("group %s does not exist", name)
	}
	return nil
}

func systemInterfaces() ([]NetInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	out := make([]NetInterface, 0, len(ifaces))
	for _, iface := range ifaces {
		entry := NetInterface{Name: iface.Name}
		addrs, err := iface.Addrs()
		if err != nil {
			return nil, err
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ip, ok := netip.AddrFromSlice(ipNet.IP)
			if !ok {
				continue
			}
			ones, _ := ipNet.Mask.Size()
			entry.Addrs = append(entry.Addrs, netip.PrefixFrom(ip.Unmap(), ones))
		}
		out = append(out, entry)
	}
	return out, nil
}
