// FILE: lixenwraith/execution/decode.go
package execution

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

var ipType = reflect.TypeOf(net.IP{})

// Cast coerces a raw option value to t.
//
// Slice and array types yield a []any holding one element per
// comma-separated item, each already coerced to the element type; the
// caller builds the typed collection. An empty interface yields a []any for
// a bracketed value and the string otherwise. A nil result with a nil error
// means t cannot be built from a string.
func Cast(value string, t reflect.Type) (any, error) {
	switch t.Kind() {
	case reflect.Invalid, reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Uintptr, reflect.Complex64, reflect.Complex128:
		return nil, nil

	case reflect.Interface:
		if t.NumMethod() != 0 {
			return nil, nil
		}
		if isBracketed(value) {
			parts := splitList(value)
			items := make([]any, len(parts))
			for i, p := range parts {
				items[i] = p
			}
			return items, nil
		}
		return value, nil

	case reflect.Slice, reflect.Array:
		if t == ipType {
			break
		}
		parts := splitList(value)
		items := make([]any, len(parts))
		for i, p := range parts {
			item, err := Cast(p, t.Elem())
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			if item == nil {
				return nil, nil
			}
			if _, nested := item.([]any); nested {
				return nil, nil
			}
			items[i] = item
		}
		return items, nil
	}

	return decodeScalar(value, t)
}

// decodeScalar runs value through mapstructure into a fresh t.
func decodeScalar(value string, t reflect.Type) (any, error) {
	target := reflect.New(t)

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target.Interface(),
		WeaklyTypedInput: true,
		DecodeHook:       castHook(),
	})
	if err != nil {
		return nil, fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(strings.TrimSpace(value)); err != nil {
		return nil, fmt.Errorf("cannot cast %q to %s: %w", value, t, err)
	}
	return target.Elem().Interface(), nil
}

// castHook returns the composite decode hook for all type conversions
func castHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		// Network types
		stringToNetIPHookFunc(),
		stringToNetIPNetHookFunc(),
		stringToURLHookFunc(),

		// Standard hooks
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),

		// Enum-like types implementing encoding.TextUnmarshaler
		mapstructure.TextUnmarshallerHookFunc(),
	)
}

// stringToNetIPHookFunc handles net.IP conversion
func stringToNetIPHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t != ipType {
			return data, nil
		}

		str := data.(string)
		if len(str) > 45 { // Max IPv6 length
			return nil, fmt.Errorf("invalid IP length: %d", len(str))
		}

		ip := net.ParseIP(str)
		if ip == nil {
			return nil, fmt.Errorf("invalid IP address: %s", str)
		}

		return ip, nil
	}
}

// stringToNetIPNetHookFunc handles net.IPNet conversion
func stringToNetIPNetHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != reflect.TypeOf(net.IPNet{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 49 { // Max IPv6 CIDR length
			return nil, fmt.Errorf("invalid CIDR length: %d", len(str))
		}
		_, ipnet, err := net.ParseCIDR(str)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR: %w", err)
		}
		if isPtr {
			return ipnet, nil
		}
		return *ipnet, nil
	}
}

// stringToURLHookFunc handles url.URL conversion
func stringToURLHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != reflect.TypeOf(url.URL{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 2048 {
			return nil, fmt.Errorf("URL too long: %d bytes", len(str))
		}
		u, err := url.Parse(str)
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
		if isPtr {
			return u, nil
		}
		return *u, nil
	}
}
