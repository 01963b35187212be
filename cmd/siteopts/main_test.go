package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/netip"
	"strings"
	"testing"

	"github.com/spf13/afero"

	opts "github.com/goliatone/go-siteopts"
)

var siteAssignments = []string{
	"HADES_SITE_NAME=wu",
	"HADES_SITE_NODE_ID=wu-1",
	`HADES_CONTACT_ADDRESSES={"Support": "support@example.org"}`,
	`HADES_USER_NETWORKS={"wu": "141.30.223.0/24"}`,
	`HADES_POSTGRESQL_FOREIGN_SERVER_OPTIONS={"host": "10.1.0.1"}`,
	`HADES_POSTGRESQL_USER_MAPPINGS={"postgres": {"username": "hades"}, "hades-agent": {"username": "hades"}}`,
	"HADES_AUTH_INTERFACE=eth1",
	"HADES_UNAUTH_INTERFACE=eth2",
	"HADES_RADIUS_LISTEN=10.66.68.1/24",
	"HADES_RADIUS_INTERFACE=eth3",
	"HADES_RADIUS_LOCALHOST_SECRET=testing123",
	"HADES_VRRP_INTERFACE=eth4",
	"HADES_VRRP_LISTEN=10.66.69.1/24",
	"HADES_VRRP_PASSWORD=secret",
	"BROKER_URL=amqp://localhost//",
}

type result struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, configure func(*app), args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer
	a := newApp(&stdout, &stderr)
	a.fs = afero.NewMemMapFs()
	if configure != nil {
		configure(a)
	}
	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(&stderr)
	root.SetErr(&stderr)
	err := root.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func withSite(args ...string) []string {
	out := append([]string{}, args...)
	out = append(out, "--no-env", "--secret-key", "abcdefghijklmnop0123")
	for _, assignment := range siteAssignments {
		out = append(out, "--set", assignment)
	}
	return out
}

func exitCode(t *testing.T, err error) int {
	t.Helper()

	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %T: %v", err, err)
	}
	return exitErr.Code
}

func TestExportPrintsStatements(t *testing.T) {
	t.Parallel()

	res := run(t, nil, withSite("export")...)
	if res.err != nil {
		t.Fatalf("export returned error: %v\n%s", res.err, res.stderr)
	}
	for _, want := range []string{
		"export HADES_SITE_NAME=wu\n",
		"export SQLALCHEMY_DATABASE_URI=postgresql\\:\\/\\/\\/hades\n",
		"export DEBUG=False\n",
		"declare -A HADES_USER_NETWORKS\n",
		"HADES_USER_NETWORKS[wu]=141\\.30\\.223\\.0\\/24\n",
		"declare -a HADES_AUTH_ALLOWED_TCP_PORTS\n",
	} {
		if !strings.Contains(res.stdout, want) {
			t.Fatalf("expected %q in output:\n%s", want, res.stdout)
		}
	}
}

func TestExportFailureWritesNothing(t *testing.T) {
	t.Parallel()

	res := run(t, nil, "export", "--no-env", "--set", "HADES_SITE_NAME=wu")
	if code := exitCode(t, res.err); code != exitConfig {
		t.Fatalf("expected exit code %d, got %d (%v)", exitConfig, code, res.err)
	}
	if res.stdout != "" {
		t.Fatalf("expected no stdout on failure, got %q", res.stdout)
	}
	if !errors.Is(res.err, opts.ErrMissingOption) {
		t.Fatalf("expected missing option, got %v", res.err)
	}
}

func TestExportStaticFailure(t *testing.T) {
	t.Parallel()

	args := withSite("export", "--set", "HADES_AUTH_FWMARK=256")
	res := run(t, nil, args...)
	if !errors.Is(res.err, opts.ErrStaticCheck) {
		t.Fatalf("expected static check failure, got %v", res.err)
	}
	if exitCode(t, res.err) != exitConfig || res.stdout != "" {
		t.Fatalf("expected exit code 2 and no output, got %v %q", res.err, res.stdout)
	}
}

func TestUnknownOverride(t *testing.T) {
	t.Parallel()

	res := run(t, nil, withSite("export", "--set", "HADES_NOPE=1")...)
	if !errors.Is(res.err, opts.ErrUnknownOption) {
		t.Fatalf("expected unknown option, got %v", res.err)
	}
	res = run(t, nil, withSite("export", "--ignore-unknown", "--set", "HADES_NOPE=1")...)
	if res.err != nil {
		t.Fatalf("expected unknown override to be ignored, got %v", res.err)
	}
}

func TestExportReadsSettingsFile(t *testing.T) {
	t.Parallel()

	res := run(t, func(a *app) {
		_ = afero.WriteFile(a.fs, "/etc/hades/site.yaml", []byte("HADES_SITE_NAME: from-file\nHADES_PRIORITY: 120\n"), 0o644)
	}, withSite("export", "-f", "/etc/hades/site.yaml")...)
	if res.err != nil {
		t.Fatalf("export returned error: %v", res.err)
	}
	if !strings.Contains(res.stdout, "export HADES_SITE_NAME=wu\n") {
		t.Fatalf("expected --set to win over the file:\n%s", res.stdout)
	}
	if !strings.Contains(res.stdout, "export HADES_PRIORITY=120\n") {
		t.Fatalf("expected priority from file:\n%s", res.stdout)
	}
}

func TestCheckRuntime(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	for _, dir := range []string{"/etc/hades", "/var/lib/hades/agent", "/var/lib/hades/portal", "/var/run/postgresql", "/run/hades/portal", "/run/hades/agent", "/etc/ssl/certs", "/etc/ssl/private"} {
		_ = fs.MkdirAll(dir, 0o755)
	}
	_ = afero.WriteFile(fs, "/etc/ssl/certs/ssl-cert-snakeoil.pem", []byte("pem"), 0o644)
	_ = afero.WriteFile(fs, "/etc/ssl/private/ssl-cert-snakeoil.key", []byte("key"), 0o600)
	anyone := func(string) error { return nil }
	probe := opts.NewSystemProbe(
		opts.WithFs(fs),
		opts.WithUserLookup(anyone),
		opts.WithGroupLookup(anyone),
		opts.WithInterfaces(func() ([]opts.NetInterface, error) {
			return []opts.NetInterface{
				{Name: "eth1", Addrs: []netip.Prefix{netip.MustParsePrefix("10.66.67.1/24")}},
				{Name: "eth2", Addrs: []netip.Prefix{netip.MustParsePrefix("10.66.0.1/19")}},
				{Name: "eth3", Addrs: []netip.Prefix{netip.MustParsePrefix("10.66.68.1/24")}},
				{Name: "eth4", Addrs: []netip.Prefix{netip.MustParsePrefix("10.66.69.1/24")}},
			}, nil
		}),
	)

	res := run(t, func(a *app) { a.probe = probe }, withSite("check")...)
	if res.err != nil {
		t.Fatalf("check returned error: %v", res.err)
	}
	if !strings.Contains(res.stderr, "passed static and runtime checks") {
		t.Fatalf("expected success line, got %q", res.stderr)
	}

	res = run(t, func(a *app) { a.probe = opts.NewSystemProbe(opts.WithFs(afero.NewMemMapFs())) }, withSite("check")...)
	if !errors.Is(res.err, opts.ErrRuntimeCheck) {
		t.Fatalf("expected runtime failure, got %v", res.err)
	}
}

func TestPlanListsReferences(t *testing.T) {
	t.Parallel()

	res := run(t, nil, withSite("plan")...)
	if res.err != nil {
		t.Fatalf("plan returned error: %v", res.err)
	}
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	position := map[string]int{}
	for i, line := range lines {
		position[strings.Fields(line)[0]] = i
	}
	if position["HADES_POSTGRESQL_DATABASE"] > position["SQLALCHEMY_DATABASE_URI"] {
		t.Fatalf("expected database before its URI:\n%s", res.stdout)
	}
	if !strings.Contains(res.stdout, "HADES_AGENT_USER") {
		t.Fatalf("expected agent user in plan:\n%s", res.stdout)
	}
}

func TestDumpJSON(t *testing.T) {
	t.Parallel()

	res := run(t, nil, withSite("dump", "--format", "json")...)
	if res.err != nil {
		t.Fatalf("dump returned error: %v", res.err)
	}
	var snapshot map[string]any
	if err := json.Unmarshal([]byte(res.stdout), &snapshot); err != nil {
		t.Fatalf("dump output is not JSON: %v", err)
	}
	if snapshot["CELERY_DEFAULT_QUEUE"] != "hades-site-wu" {
		t.Fatalf("unexpected queue %v", snapshot["CELERY_DEFAULT_QUEUE"])
	}
	if snapshot["SECRET_KEY"] != "abcdefghijklmnop0123" {
		t.Fatalf("expected secret key from flag, got %v", snapshot["SECRET_KEY"])
	}
}

func TestDumpFormats(t *testing.T) {
	t.Parallel()

	for _, format := range []string{"yaml", "toml"} {
		res := run(t, nil, withSite("dump", "--format", format)...)
		if res.err != nil {
			t.Fatalf("dump --format %s returned error: %v", format, res.err)
		}
		if !strings.Contains(res.stdout, "hades-site-wu") {
			t.Fatalf("expected queue name in %s output:\n%s", format, res.stdout)
		}
	}
	res := run(t, nil, withSite("dump", "--format", "xml")...)
	if exitCode(t, res.err) != exitFailure {
		t.Fatalf("expected exit code 1 for unknown format, got %v", res.err)
	}
}

func TestDescribeAndSchema(t *testing.T) {
	t.Parallel()

	res := run(t, nil, "describe", "--no-env")
	if res.err != nil {
		t.Fatalf("describe returned error: %v", res.err)
	}
	if !strings.Contains(res.stdout, "HADES_AUTH_DNSMASQ_USER") || !strings.Contains(res.stdout, "alias") {
		t.Fatalf("unexpected describe output:\n%s", res.stdout)
	}

	res = run(t, nil, "schema", "--no-env")
	if res.err != nil {
		t.Fatalf("schema returned error: %v", res.err)
	}
	var document map[string]any
	if err := json.Unmarshal([]byte(res.stdout), &document); err != nil {
		t.Fatalf("schema output is not JSON: %v", err)
	}
	components := document["components"].(map[string]any)["schemas"].(map[string]any)
	if _, ok := components["SiteOptions"]; !ok {
		t.Fatalf("expected SiteOptions component")
	}
}

func TestInvalidFlags(t *testing.T) {
	t.Parallel()

	res := run(t, nil, "describe", "--log-level", "loud")
	if exitCode(t, res.err) != exitFailure {
		t.Fatalf("expected exit code 1, got %v", res.err)
	}
	if !strings.Contains(res.err.Error(), "--log-level") {
		t.Fatalf("expected flag name in error, got %v", res.err)
	}
	res = run(t, nil, "describe", "--set", "missing-equals")
	if res.err == nil || !strings.Contains(res.err.Error(), "--set") {
		t.Fatalf("expected --set validation error, got %v", res.err)
	}
}

func TestActivityLog(t *testing.T) {
	t.Parallel()

	res := run(t, nil, withSite("export", "--activity-log", "--log-level", "info")...)
	if res.err != nil {
		t.Fatalf("export returned error: %v", res.err)
	}
	for _, verb := range []string{"config.resolved", "config.validated", "config.exported"} {
		if !strings.Contains(res.stderr, verb) {
			t.Fatalf("expected %s in activity log:\n%s", verb, res.stderr)
		}
	}
}
