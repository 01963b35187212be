package opts

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"slices"
	"strings"
	"testing"

	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

func TestEscape(t *testing.T) {
	cases := map[string]string{
		"plain_Name09":     "plain_Name09",
		"":                 "",
		"a b":              `a\ b`,
		"postgresql:///db": `postgresql\:\/\/\/db`,
		`it's "$HOME"`:     `it\'s\ \"\$HOME\"`,
		"10.66.0.1/24":     `10\.66\.0\.1\/24`,
		"ümlaut":           `\ümlaut`,
	}
	for input, want := range cases {
		if got := Escape(input); got != want {
			t.Fatalf("Escape(%q) = %q, want %q", input, got, want)
		}
	}
}

func exportRegistry(t *testing.T) *Registry {
	t.Helper()
	return mustRegistry(t,
		Descriptor{Name: "SITE_NAME", Type: TypeString},
		Descriptor{Name: "DEBUG", Type: TypeBool, Default: false},
		Descriptor{Name: "PORT", Type: TypeInteger, Default: 1812},
		Descriptor{Name: "LISTEN", Type: TypeIPNetwork, Default: "10.66.67.1/24"},
		Descriptor{Name: "URI", Type: TypeString, Default: Format("postgresql:///{}", "SITE_NAME")},
		Descriptor{Name: "NETWORKS", Type: TypeMapping, Default: MapOf("wu", "141.30.223.0/24", "nested", map[string]any{"x": 1}, "hss", "141.76.121.0/24")},
		Descriptor{Name: "PORTS", Type: TypeSequence, Default: []any{1812, []any{1}, 1813}},
		Descriptor{Name: "LEASE", Type: TypeDuration, Default: "1h"},
	)
}

func TestExportStatements(t *testing.T) {
	cfg, err := Resolve(map[string]any{"SITE_NAME": "wu dorm"}, exportRegistry(t))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	got := slices.Collect(Export(cfg))
	want := []string{
		`export SITE_NAME=wu\ dorm`,
		`export DEBUG=False`,
		`export PORT=1812`,
		`export LISTEN=10\.66\.67\.1\/24`,
		`export URI=postgresql\:\/\/\/wu\ dorm`,
		`declare -A NETWORKS`,
		`NETWORKS[wu]=141\.30\.223\.0\/24`,
		`NETWORKS[hss]=141\.76\.121\.0\/24`,
		`export NETWORKS`,
		`declare -a PORTS`,
		`PORTS[0]=1812`,
		`PORTS[2]=1813`,
		`export PORTS`,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected export\nwant: %q\n got: %q", want, got)
	}
}

func TestExportIsRepeatable(t *testing.T) {
	cfg, err := Resolve(map[string]any{"SITE_NAME": "wu"}, exportRegistry(t))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	first := slices.Collect(Export(cfg))
	second := slices.Collect(Export(cfg))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("export should be deterministic")
	}

	var lines []string
	for line := range Export(cfg) {
		lines = append(lines, line)
		if len(lines) == 2 {
			break
		}
	}
	if len(lines) != 2 {
		t.Fatalf("export should stop when the consumer stops, got %d lines", len(lines))
	}
}

func TestWriteExportSourcesInShell(t *testing.T) {
	site := `wu's "dorm" $HOME \ ; x`
	cfg, err := Resolve(map[string]any{"SITE_NAME": site}, exportRegistry(t))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	var script bytes.Buffer
	if err := WriteExport(&script, cfg); err != nil {
		t.Fatalf("WriteExport returned error: %v", err)
	}
	script.WriteString(`printf '%s\n' "$SITE_NAME" "$URI" "$LISTEN" "${NETWORKS[wu]}" "${PORTS[2]}"` + "\n")

	file, err := syntax.NewParser().Parse(strings.NewReader(script.String()), "export.sh")
	if err != nil {
		t.Fatalf("export is not valid shell: %v\n%s", err, script.String())
	}
	var out bytes.Buffer
	runner, err := interp.New(interp.StdIO(nil, &out, &out))
	if err != nil {
		t.Fatalf("interp.New returned error: %v", err)
	}
	if err := runner.Run(context.Background(), file); err != nil {
		t.Fatalf("running export failed: %v\n%s", err, out.String())
	}

	got := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	want := []string{site, "postgresql:///" + site, "10.66.67.1/24", "141.30.223.0/24", "1813"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected shell values\nwant: %q\n got: %q", want, got)
	}
}

func TestWriteExportNilConfig(t *testing.T) {
	if err := WriteExport(&bytes.Buffer{}, nil); !errors.Is(err, ErrNilConfig) {
		t.Fatalf("expected ErrNilConfig, got %v", err)
	}
}
