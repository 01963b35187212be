package opts

import (
	"bufio"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/goliatone/go-siteopts/pkg/activity"
)

// Escape backslash-escapes every rune outside [A-Za-z0-9_] so the result is
// a single shell word.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isShellWordRune(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('\\')
		b.WriteRune(r)
	}
	return b.String()
}

func isShellWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// Export yields the shell statements for cfg in registry order, one line per
// element without trailing newline. Scalars become `export NAME=VALUE`;
// mappings and sequences become bash associative and indexed arrays holding
// their scalar members. Values of any other shape produce nothing.
func Export(cfg *Config) iter.Seq[string] {
	return func(yield func(string) bool) {
		for name, v := range cfg.All() {
			if !exportValue(name, v, yield) {
				return
			}
		}
	}
}

func exportValue(name string, v Value, yield func(string) bool) bool {
	escapedName := Escape(name)
	switch v.Shape() {
	case ShapeScalar:
		return yield("export " + escapedName + "=" + Escape(v.String()))
	case ShapeMapping:
		if !yield("declare -A " + name) {
			return false
		}
		for _, entry := range v.Entries() {
			if !entry.Value.IsScalar() {
				continue
			}
			if !yield(escapedName + "[" + Escape(entry.Key) + "]=" + Escape(entry.Value.String())) {
				return false
			}
		}
		return yield("export " + escapedName)
	case ShapeSequence:
		if !yield("declare -a " + name) {
			return false
		}
		for i, elem := range v.Elements() {
			if !elem.IsScalar() {
				continue
			}
			if !yield(escapedName + "[" + strconv.Itoa(i) + "]=" + Escape(elem.String())) {
				return false
			}
		}
		return yield("export " + escapedName)
	default:
		return true
	}
}

// WriteExport writes Export(cfg) to w, one statement per line, and reports a
// config.exported activity event once everything is flushed.
func WriteExport(w io.Writer, cfg *Config) error {
	if cfg == nil {
		return ErrNilConfig
	}
	buffered := bufio.NewWriter(w)
	lines := 0
	for line := range Export(cfg) {
		if _, err := buffered.WriteString(line); err != nil {
			return err
		}
		if err := buffered.WriteByte('\n'); err != nil {
			return err
		}
		lines++
	}
	if err := buffered.Flush(); err != nil {
		return err
	}
	cfg.emit(cfg.ctx, activity.BuildConfigExportedEvent(activity.ConfigEventInput{
		Metadata: map[string]any{"lines": lines},
		Run:      cfg.runContext(),
	}))
	return nil
}
