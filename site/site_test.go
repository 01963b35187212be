package site

import (
	"context"
	"errors"
	"net/netip"
	"strings"
	"testing"

	opts "github.com/goliatone/go-siteopts"
	"github.com/spf13/afero"
)

func requiredOverrides() map[string]any {
	return map[string]any{
		"HADES_SITE_NAME":                         "wu",
		"HADES_SITE_NODE_ID":                      "wu-1",
		"HADES_CONTACT_ADDRESSES":                 map[string]any{"Support": "support@wh2.tu-dresden.de"},
		"HADES_USER_NETWORKS":                     map[string]any{"wu": "141.30.223.0/24"},
		"HADES_POSTGRESQL_FOREIGN_SERVER_OPTIONS": map[string]any{"host": "10.1.0.1", "port": "3306"},
		"HADES_POSTGRESQL_USER_MAPPINGS": map[string]any{
			"postgres":    map[string]any{"username": "hades"},
			"hades-agent": map[string]any{"username": "hades"},
		},
		"HADES_AUTH_INTERFACE":          "eth1",
		"HADES_UNAUTH_INTERFACE":        "eth2",
		"HADES_RADIUS_LISTEN":           "10.66.68.1/24",
		"HADES_RADIUS_INTERFACE":        "eth3",
		"HADES_RADIUS_LOCALHOST_SECRET": "testing123",
		"HADES_VRRP_INTERFACE":          "eth4",
		"HADES_VRRP_LISTEN":             "10.66.69.1/24",
		"HADES_VRRP_PASSWORD":           "secret",
		"BROKER_URL":                    "amqp://guest@localhost//",
	}
}

func newTestRegistry(t *testing.T) *opts.Registry {
	t.Helper()

	registry, err := NewRegistry(Settings{SecretKey: "fixed"})
	if err != nil {
		t.Fatalf("NewRegistry returned error: %v", err)
	}
	return registry
}

func TestCatalogResolvesAndValidates(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t)
	cfg, err := opts.Resolve(requiredOverrides(), registry)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if err := opts.ValidateStatic(cfg); err != nil {
		t.Fatalf("ValidateStatic returned error: %v", err)
	}

	checks := map[string]string{
		"SQLALCHEMY_DATABASE_URI": "postgresql:///hades",
		"CELERY_DEFAULT_QUEUE":    "hades-site-wu",
		"HADES_AUTH_DNSMASQ_USER": "hades-agent",
		"SECRET_KEY":              "fixed",
		"DEBUG":                   "False",
		"HADES_UNAUTH_DHCP_RANGE": "10.66.0.10-10.66.31.254",
		"HADES_AUTH_LISTEN":       "10.66.67.1/24",
	}
	for name, want := range checks {
		v, ok := cfg.Get(name)
		if !ok {
			t.Fatalf("expected %s to be resolved", name)
		}
		if got := v.String(); got != want {
			t.Fatalf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestRequiredOptionsMatchOverrides(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t)
	required := RequiredOptions(registry)
	overrides := requiredOverrides()
	if len(required) != len(overrides) {
		t.Fatalf("expected %d required options, got %d: %v", len(overrides), len(required), required)
	}
	for _, name := range required {
		if _, ok := overrides[name]; !ok {
			t.Fatalf("required option %s has no test override", name)
		}
	}
}

func TestCatalogMissingSiteName(t *testing.T) {
	t.Parallel()

	overrides := requiredOverrides()
	delete(overrides, "HADES_SITE_NAME")

	_, err := opts.Resolve(overrides, newTestRegistry(t))
	if !errors.Is(err, opts.ErrMissingOption) {
		t.Fatalf("expected missing option error, got %v", err)
	}
	var cfgErr *opts.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Option != "HADES_SITE_NAME" {
		t.Fatalf("expected HADES_SITE_NAME to be reported, got %v", err)
	}
}

func TestCatalogUserMappingRequiresAgent(t *testing.T) {
	t.Parallel()

	overrides := requiredOverrides()
	overrides["HADES_POSTGRESQL_USER_MAPPINGS"] = map[string]any{
		"postgres": map[string]any{"username": "hades"},
	}
	cfg, err := opts.Resolve(overrides, newTestRegistry(t))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	err = opts.ValidateStatic(cfg)
	if !errors.Is(err, opts.ErrStaticCheck) {
		t.Fatalf("expected static check failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "hades-agent") {
		t.Fatalf("expected error to name the agent user, got %v", err)
	}
}

func TestCatalogDHCPRangeOutsideNetwork(t *testing.T) {
	t.Parallel()

	overrides := requiredOverrides()
	overrides["HADES_UNAUTH_LISTEN"] = "10.67.0.1/24"
	cfg, err := opts.Resolve(overrides, newTestRegistry(t))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if err := opts.ValidateStatic(cfg); !errors.Is(err, opts.ErrStaticCheck) {
		t.Fatalf("expected static check failure, got %v", err)
	}
}

func TestCatalogRuntimeChecks(t *testing.T) {
	t.Parallel()

	cfg, err := opts.Resolve(requiredOverrides(), newTestRegistry(t))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	fs := afero.NewMemMapFs()
	for _, dir := range []string{"/etc/hades", "/var/lib/hades/agent", "/var/lib/hades/portal", "/var/run/postgresql", "/run/hades/portal", "/run/hades/agent", "/etc/ssl/certs", "/etc/ssl/private"} {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	for _, file := range []string{"/etc/ssl/certs/ssl-cert-snakeoil.pem", "/etc/ssl/private/ssl-cert-snakeoil.key"} {
		if err := afero.WriteFile(fs, file, []byte("pem"), 0o600); err != nil {
			t.Fatalf("write %s: %v", file, err)
		}
	}
	interfaces := func() ([]opts.NetInterface, error) {
		return []opts.NetInterface{
			{Name: "eth1", Addrs: []netip.Prefix{netip.MustParsePrefix("10.66.67.1/24")}},
			{Name: "eth2", Addrs: []netip.Prefix{netip.MustParsePrefix("10.66.0.1/19")}},
			{Name: "eth3", Addrs: []netip.Prefix{netip.MustParsePrefix("10.66.68.1/24")}},
			{Name: "eth4", Addrs: []netip.Prefix{netip.MustParsePrefix("10.66.69.1/24")}},
		}, nil
	}
	anyone := func(string) error { return nil }

	probe := opts.NewSystemProbe(
		opts.WithFs(fs),
		opts.WithUserLookup(anyone),
		opts.WithGroupLookup(anyone),
		opts.WithInterfaces(interfaces),
	)
	if err := opts.ValidateRuntime(context.Background(), cfg, probe); err != nil {
		t.Fatalf("ValidateRuntime returned error: %v", err)
	}

	missing := opts.NewSystemProbe(
		opts.WithFs(afero.NewMemMapFs()),
		opts.WithUserLookup(anyone),
		opts.WithGroupLookup(anyone),
		opts.WithInterfaces(interfaces),
	)
	err = opts.ValidateRuntime(context.Background(), cfg, missing)
	var cfgErr *opts.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Option != "HADES_CONFIG_DIR" {
		t.Fatalf("expected HADES_CONFIG_DIR runtime failure, got %v", err)
	}
}

func TestGenerateSecret(t *testing.T) {
	t.Parallel()

	first, err := GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret returned error: %v", err)
	}
	second, err := GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret returned error: %v", err)
	}
	if len(first) != SecretLength {
		t.Fatalf("expected %d characters, got %d", SecretLength, len(first))
	}
	if first == second {
		t.Fatalf("expected distinct secrets")
	}
	for _, r := range first {
		if !strings.ContainsRune(secretAlphabet, r) {
			t.Fatalf("unexpected character %q in secret", r)
		}
	}
}

func TestNewRegistryGeneratesSecret(t *testing.T) {
	t.Parallel()

	registry, err := NewRegistry(Settings{})
	if err != nil {
		t.Fatalf("NewRegistry returned error: %v", err)
	}
	d, err := registry.Lookup("SECRET_KEY")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if s, _ := d.Default.(string); len(s) != SecretLength {
		t.Fatalf("expected generated secret default, got %v", d.Default)
	}
}
