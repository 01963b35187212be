package opts

import (
	"fmt"
	"strconv"
	"strings"
)

// formatBraces substitutes {} (next positional), {N} (positional N) and
// {key} (keyword) fields in pattern. {{ and }} produce literal braces. Mixing
// automatic and explicit numbering is an error, as is any format specifier or
// conversion suffix.
func formatBraces(pattern string, args []string, kwargs map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(pattern))
	auto, manual := 0, false
	usedAuto := false

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '{':
			if i+1 < len(pattern) && pattern[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(pattern[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("format %q: unmatched '{' at %d", pattern, i)
			}
			field := pattern[i+1 : i+1+end]
			i += end + 1
			if strings.ContainsAny(field, "{:!") {
				return "", fmt.Errorf("format %q: unsupported field %q", pattern, field)
			}
			switch {
			case field == "":
				if manual {
					return "", fmt.Errorf("format %q: cannot switch from manual to automatic numbering", pattern)
				}
				usedAuto = true
				if auto >= len(args) {
					return "", fmt.Errorf("format %q: positional index %d out of range", pattern, auto)
				}
				b.WriteString(args[auto])
				auto++
			case isDigits(field):
				if usedAuto {
					return "", fmt.Errorf("format %q: cannot switch from automatic to manual numbering", pattern)
				}
				manual = true
				index, err := strconv.Atoi(field)
				if err != nil || index >= len(args) {
					return "", fmt.Errorf("format %q: positional index %s out of range", pattern, field)
				}
				b.WriteString(args[index])
			default:
				value, ok := kwargs[field]
				if !ok {
					return "", fmt.Errorf("format %q: no value for field %q", pattern, field)
				}
				b.WriteString(value)
			}
		case '}':
			if i+1 < len(pattern) && pattern[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("format %q: single '}' at %d", pattern, i)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
