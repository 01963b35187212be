package opts

import (
	"encoding/json"
	"fmt"
	"math"
	"net/netip"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Coerce converts raw into a Value of the declared type. TypeAny keeps the
// value as given and only classifies its shape.
func Coerce(t Type, raw any) (Value, error) {
	if v, ok := raw.(Value); ok {
		if t == TypeAny || v.matches(t) {
			return v, nil
		}
		raw = v.Native()
	}
	if raw == nil {
		if t == TypeAny {
			return Value{shape: ShapeOther}, nil
		}
		return Value{}, fmt.Errorf("nil value for %s", t)
	}
	switch t {
	case TypeAny:
		return classify(raw), nil
	case TypeString:
		s, err := cast.ToStringE(raw)
		if err != nil {
			return Value{}, err
		}
		return scalarValue(KindString, s), nil
	case TypeBool:
		b, err := cast.ToBoolE(raw)
		if err != nil {
			return Value{}, err
		}
		return scalarValue(KindBool, b), nil
	case TypeInteger:
		i, err := toInteger(raw)
		if err != nil {
			return Value{}, err
		}
		return scalarValue(KindInteger, i), nil
	case TypeIPAddress:
		a, err := toAddr(raw)
		if err != nil {
			return Value{}, err
		}
		return scalarValue(KindIPAddress, a), nil
	case TypeIPNetwork:
		p, err := toPrefix(raw)
		if err != nil {
			return Value{}, err
		}
		return scalarValue(KindIPNetwork, p), nil
	case TypeDuration:
		d, err := toDuration(raw)
		if err != nil {
			return Value{}, err
		}
		return Value{shape: ShapeOther, scalar: d}, nil
	case TypeIPRange:
		r, err := toIPRange(raw)
		if err != nil {
			return Value{}, err
		}
		return Value{shape: ShapeOther, scalar: r}, nil
	case TypeMapping:
		return toMapping(raw)
	case TypeSequence:
		return toSequence(raw)
	default:
		return Value{}, fmt.Errorf("unsupported declared type %d", t)
	}
}

func (v Value) matches(t Type) bool {
	switch t {
	case TypeString:
		return v.kind == KindString
	case TypeBool:
		return v.kind == KindBool
	case TypeInteger:
		return v.kind == KindInteger
	case TypeIPAddress:
		return v.kind == KindIPAddress
	case TypeIPNetwork:
		return v.kind == KindIPNetwork
	case TypeDuration:
		_, ok := v.scalar.(time.Duration)
		return ok
	case TypeIPRange:
		_, ok := v.scalar.(IPRange)
		return ok
	case TypeMapping:
		return v.shape == ShapeMapping
	case TypeSequence:
		return v.shape == ShapeSequence
	default:
		return false
	}
}

func scalarValue(kind ScalarKind, scalar any) Value {
	return Value{shape: ShapeScalar, kind: kind, scalar: scalar}
}

// classify assigns a shape to an untyped value without converting it beyond
// integer normalization.
func classify(raw any) Value {
	switch typed := raw.(type) {
	case Value:
		return typed
	case string:
		return scalarValue(KindString, typed)
	case bool:
		return scalarValue(KindBool, typed)
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		return scalarValue(KindInteger, cast.ToInt64(typed))
	case uint, uint64, uintptr:
		if i, err := toInteger(typed); err == nil {
			return scalarValue(KindInteger, i)
		}
		return Value{shape: ShapeOther, scalar: typed}
	case json.Number:
		if i, err := typed.Int64(); err == nil {
			return scalarValue(KindInteger, i)
		}
		return Value{shape: ShapeOther, scalar: typed.String()}
	case netip.Addr:
		return scalarValue(KindIPAddress, typed)
	case netip.Prefix:
		return scalarValue(KindIPNetwork, typed)
	case time.Duration, IPRange:
		return Value{shape: ShapeOther, scalar: typed}
	case *Mapping:
		v, _ := toMapping(typed)
		return v
	}
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Map:
		if v, err := toMapping(raw); err == nil {
			return v
		}
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			break
		}
		if v, err := toSequence(raw); err == nil {
			return v
		}
	}
	return Value{shape: ShapeOther, scalar: raw}
}

func toInteger(raw any) (int64, error) {
	switch typed := raw.(type) {
	case string:
		return strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
	case float64:
		return floatToInteger(typed)
	case float32:
		return floatToInteger(float64(typed))
	case uint:
		return uintToInteger(uint64(typed))
	case uint64:
		return uintToInteger(typed)
	case uintptr:
		return uintToInteger(uint64(typed))
	case bool:
		return 0, fmt.Errorf("bool %v is not an integer", typed)
	}
	return cast.ToInt64E(raw)
}

// floatToInteger accepts whole numbers inside the int64 range. float64(MaxInt64)
// rounds up to 2^63, so the upper bound is exclusive.
func floatToInteger(f float64) (int64, error) {
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%v is not an integer", f)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%v is out of the integer range", f)
	}
	return int64(f), nil
}

func uintToInteger(u uint64) (int64, error) {
	if u > math.MaxInt64 {
		return 0, fmt.Errorf("%d is out of the integer range", u)
	}
	return int64(u), nil
}

func toAddr(raw any) (netip.Addr, error) {
	if a, ok := raw.(netip.Addr); ok {
		return a, nil
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return netip.Addr{}, err
	}
	return netip.ParseAddr(strings.TrimSpace(s))
}

// toPrefix accepts "addr/bits" keeping host bits, or a bare address as a
// single host network.
func toPrefix(raw any) (netip.Prefix, error) {
	switch typed := raw.(type) {
	case netip.Prefix:
		return typed, nil
	case netip.Addr:
		return netip.PrefixFrom(typed, typed.BitLen()), nil
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return netip.Prefix{}, err
	}
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "/") {
		a, err := netip.ParseAddr(s)
		if err != nil {
			return netip.Prefix{}, err
		}
		return netip.PrefixFrom(a, a.BitLen()), nil
	}
	return netip.ParsePrefix(s)
}

// toDuration treats bare numbers as seconds and strings with units through
// time.ParseDuration.
func toDuration(raw any) (time.Duration, error) {
	switch typed := raw.(type) {
	case time.Duration:
		return typed, nil
	case string:
		s := strings.TrimSpace(typed)
		if seconds, err := strconv.ParseFloat(s, 64); err == nil {
			return time.Duration(seconds * float64(time.Second)), nil
		}
		return cast.ToDurationE(s)
	case bool:
		return 0, fmt.Errorf("bool %v is not a duration", typed)
	}
	seconds, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

func toIPRange(raw any) (IPRange, error) {
	switch typed := raw.(type) {
	case IPRange:
		return typed, nil
	case string:
		return ParseIPRange(typed)
	}
	items, err := toAnySlice(raw)
	if err != nil {
		return IPRange{}, err
	}
	if len(items) != 2 {
		return IPRange{}, fmt.Errorf("ip range needs two addresses, got %d", len(items))
	}
	return NewIPRange(cast.ToString(items[0]), cast.ToString(items[1]))
}

func toMapping(raw any) (Value, error) {
	if m, ok := raw.(*Mapping); ok {
		entries := make([]Entry, 0, m.Len())
		for key, value := range m.All() {
			entries = append(entries, Entry{Key: key, Value: classify(value)})
		}
		return Value{shape: ShapeMapping, entries: entries}, nil
	}
	var plain map[string]any
	switch typed := raw.(type) {
	case map[string]any:
		plain = typed
	case map[string]string:
		plain = make(map[string]any, len(typed))
		for key, value := range typed {
			plain[key] = value
		}
	default:
		converted, err := cast.ToStringMapE(raw)
		if err != nil {
			converted, err = reflectStringMap(raw)
			if err != nil {
				return Value{}, err
			}
		}
		plain = converted
	}
	keys := make([]string, 0, len(plain))
	for key := range plain {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, Entry{Key: key, Value: classify(plain[key])})
	}
	return Value{shape: ShapeMapping, entries: entries}, nil
}

func reflectStringMap(raw any) (map[string]any, error) {
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Map {
		return nil, fmt.Errorf("%T is not a mapping", raw)
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key, err := cast.ToStringE(iter.Key().Interface())
		if err != nil {
			return nil, fmt.Errorf("mapping key %v: %w", iter.Key().Interface(), err)
		}
		out[key] = iter.Value().Interface()
	}
	return out, nil
}

func toSequence(raw any) (Value, error) {
	items, err := toAnySlice(raw)
	if err != nil {
		return Value{}, err
	}
	elements := make([]Value, len(items))
	for i, item := range items {
		elements[i] = classify(item)
	}
	return Value{shape: ShapeSequence, elements: elements}, nil
}

// toAnySlice accepts slices, arrays, JSON array strings and comma separated
// strings.
func toAnySlice(raw any) ([]any, error) {
	if s, ok := raw.(string); ok {
		s = strings.TrimSpace(s)
		if strings.HasPrefix(s, "[") {
			var out []any
			decoder := json.NewDecoder(strings.NewReader(s))
			decoder.UseNumber()
			if err := decoder.Decode(&out); err != nil {
				return nil, err
			}
			for i, item := range out {
				if n, ok := item.(json.Number); ok {
					if i64, err := n.Int64(); err == nil {
						out[i] = i64
					} else {
						out[i] = n.String()
					}
				}
			}
			return out, nil
		}
		if s == "" {
			return []any{}, nil
		}
		parts := strings.Split(s, ",")
		out := make([]any, len(parts))
		for i, part := range parts {
			out[i] = strings.TrimSpace(part)
		}
		return out, nil
	}
	if items, err := cast.ToSliceE(raw); err == nil {
		return items, nil
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%T is not a sequence", raw)
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}
