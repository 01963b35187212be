package opts

import (
	"math"
	"net/netip"
	"reflect"
	"testing"
	"time"
)

func TestCoerceScalars(t *testing.T) {
	cases := []struct {
		name  string
		typ   Type
		raw   any
		kind  ScalarKind
		shape Shape
		str   string
	}{
		{"string", TypeString, "wu", KindString, ShapeScalar, "wu"},
		{"bool from string", TypeBool, "false", KindBool, ShapeScalar, "False"},
		{"integer from string", TypeInteger, " 1812 ", KindInteger, ShapeScalar, "1812"},
		{"integer from float", TypeInteger, float64(66), KindInteger, ShapeScalar, "66"},
		{"integer from uint64", TypeInteger, uint64(1812), KindInteger, ShapeScalar, "1812"},
		{"integer lower bound", TypeInteger, float64(math.MinInt64), KindInteger, ShapeScalar, "-9223372036854775808"},
		{"address", TypeIPAddress, "10.66.0.1", KindIPAddress, ShapeScalar, "10.66.0.1"},
		{"network keeps host bits", TypeIPNetwork, "10.66.67.10/24", KindIPNetwork, ShapeScalar, "10.66.67.10/24"},
		{"bare address network", TypeIPNetwork, "10.66.67.10", KindIPNetwork, ShapeScalar, "10.66.67.10/32"},
		{"duration seconds", TypeDuration, 90, KindNone, ShapeOther, "1m30s"},
		{"duration string", TypeDuration, "2h", KindNone, ShapeOther, "2h0m0s"},
		{"range", TypeIPRange, "10.66.0.10-10.66.0.20", KindNone, ShapeOther, "10.66.0.10-10.66.0.20"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := Coerce(tc.typ, tc.raw)
			if err != nil {
				t.Fatalf("Coerce returned error: %v", err)
			}
			if v.Kind() != tc.kind || v.Shape() != tc.shape || v.String() != tc.str {
				t.Fatalf("unexpected value kind=%d shape=%s str=%q", v.Kind(), v.Shape(), v.String())
			}
		})
	}
}

func TestCoerceRejects(t *testing.T) {
	cases := []struct {
		typ Type
		raw any
	}{
		{TypeInteger, "radius"},
		{TypeInteger, 1.5},
		{TypeInteger, true},
		{TypeInteger, 1e20},
		{TypeInteger, -1e20},
		{TypeInteger, float64(math.MaxInt64)},
		{TypeInteger, float32(1e19)},
		{TypeInteger, math.Inf(1)},
		{TypeInteger, uint64(math.MaxUint64)},
		{TypeBool, "maybe"},
		{TypeIPAddress, "10.66.0.300"},
		{TypeIPNetwork, "10.66.0.0/40"},
		{TypeDuration, "soon"},
		{TypeIPRange, "10.66.0.20-10.66.0.10"},
		{TypeIPRange, "10.66.0.1-::1"},
		{TypeMapping, 42},
		{TypeString, nil},
	}
	for _, tc := range cases {
		if _, err := Coerce(tc.typ, tc.raw); err == nil {
			t.Fatalf("Coerce(%s, %#v) should fail", tc.typ, tc.raw)
		}
	}
}

func TestCoerceMappingOrder(t *testing.T) {
	ordered, err := Coerce(TypeMapping, MapOf("zeta", 1, "alpha", "a"))
	if err != nil {
		t.Fatalf("Coerce returned error: %v", err)
	}
	var keys []string
	for _, entry := range ordered.Entries() {
		keys = append(keys, entry.Key)
	}
	if !reflect.DeepEqual(keys, []string{"zeta", "alpha"}) {
		t.Fatalf("declared mappings keep insertion order, got %v", keys)
	}

	plain, err := Coerce(TypeMapping, map[string]any{"zeta": 1, "alpha": "a"})
	if err != nil {
		t.Fatalf("Coerce returned error: %v", err)
	}
	keys = keys[:0]
	for _, entry := range plain.Entries() {
		keys = append(keys, entry.Key)
	}
	if !reflect.DeepEqual(keys, []string{"alpha", "zeta"}) {
		t.Fatalf("plain maps are sorted, got %v", keys)
	}
	if v, ok := plain.Lookup("zeta"); !ok || v.Kind() != KindInteger {
		t.Fatalf("nested integers are classified, got %#v", v.Native())
	}
}

func TestCoerceMappingFromJSON(t *testing.T) {
	v, err := Coerce(TypeMapping, `{"wu": "141.30.223.0/24"}`)
	if err != nil {
		t.Fatalf("Coerce returned error: %v", err)
	}
	if entry, ok := v.Lookup("wu"); !ok || entry.String() != "141.30.223.0/24" {
		t.Fatalf("unexpected mapping %#v", v.Native())
	}
}

func TestCoerceSequence(t *testing.T) {
	v, err := Coerce(TypeSequence, `[1812, "radius"]`)
	if err != nil {
		t.Fatalf("Coerce returned error: %v", err)
	}
	if v.Shape() != ShapeSequence || v.Len() != 2 {
		t.Fatalf("unexpected sequence %#v", v.Native())
	}
	if first := v.Elements()[0]; first.Kind() != KindInteger || first.String() != "1812" {
		t.Fatalf("unexpected first element %#v", first.Native())
	}

	fromSlice, err := Coerce(TypeSequence, []string{"a", "b"})
	if err != nil || fromSlice.Len() != 2 {
		t.Fatalf("unexpected sequence %v, %v", fromSlice.Native(), err)
	}
}

func TestCoerceAnyClassifies(t *testing.T) {
	cases := map[string]struct {
		raw   any
		shape Shape
	}{
		"string":   {"x", ShapeScalar},
		"map":      {map[string]int{"a": 1}, ShapeMapping},
		"slice":    {[]int{1, 2}, ShapeSequence},
		"duration": {time.Second, ShapeOther},
		"bytes":    {[]byte("raw"), ShapeOther},
		"struct":   {struct{}{}, ShapeOther},
		"uint64":   {uint64(443), ShapeScalar},
		"overflow": {uint64(math.MaxUint64), ShapeOther},
		"nil":      {nil, ShapeOther},
	}
	for name, tc := range cases {
		v, err := Coerce(TypeAny, tc.raw)
		if err != nil {
			t.Fatalf("%s: Coerce returned error: %v", name, err)
		}
		if v.Shape() != tc.shape {
			t.Fatalf("%s: expected %s, got %s", name, tc.shape, v.Shape())
		}
	}
}

func TestCoerceKeepsMatchingValue(t *testing.T) {
	v, _ := Coerce(TypeIPNetwork, netip.MustParsePrefix("10.0.0.1/8"))
	again, err := Coerce(TypeIPNetwork, v)
	if err != nil || !reflect.DeepEqual(v, again) {
		t.Fatalf("coercing a matching value should be a no-op, got %#v %v", again.Native(), err)
	}
	asString, err := Coerce(TypeString, v)
	if err != nil || asString.Kind() != KindString || asString.String() != "10.0.0.1/8" {
		t.Fatalf("unexpected string coercion %#v %v", asString.Native(), err)
	}
}

func TestValuePlain(t *testing.T) {
	v, _ := Coerce(TypeMapping, map[string]any{
		"net":   netip.MustParsePrefix("10.0.0.0/8"),
		"ports": []any{1, 2},
	})
	plain, ok := v.Plain().(map[string]any)
	if !ok {
		t.Fatalf("expected map, got %T", v.Plain())
	}
	if plain["net"] != "10.0.0.0/8" {
		t.Fatalf("networks become strings in plain form, got %#v", plain["net"])
	}
	if !reflect.DeepEqual(plain["ports"], []any{int64(1), int64(2)}) {
		t.Fatalf("unexpected ports %#v", plain["ports"])
	}
}
