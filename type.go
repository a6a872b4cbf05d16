// File: lixenwraith/execution/type.go
package execution

import (
	"fmt"
	"strconv"
)

// String retrieves a raw property value.
func (p *Properties) String(key string) (string, error) {
	val, found := p.Get(key)
	if !found {
		return "", fmt.Errorf("property not set: %s", key)
	}
	return val, nil
}

// Int64 retrieves a property as an int64.
// Accepts base prefixes (e.g., "0xFF") and truncates float strings.
func (p *Properties) Int64(key string) (int64, error) {
	s, err := p.String(key)
	if err != nil {
		return 0, err
	}
	i, err := strconv.ParseInt(s, 0, 64)
	if err == nil {
		return i, nil
	}
	if f, ferr := strconv.ParseFloat(s, 64); ferr == nil {
		return int64(f), nil // Truncate
	}
	return 0, fmt.Errorf("cannot convert %q to int64 for property %s: %w", s, key, err)
}

// Bool retrieves a property as a boolean.
// A key present with an empty value counts as true, like a bare flag.
func (p *Properties) Bool(key string) (bool, error) {
	s, err := p.String(key)
	if err != nil {
		return false, err
	}
	if s == "" {
		return true, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("cannot convert %q to bool for property %s: %w", s, key, err)
	}
	return b, nil
}

// Float64 retrieves a property as a float64.
func (p *Properties) Float64(key string) (float64, error) {
	s, err := p.String(key)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %q to float64 for property %s: %w", s, key, err)
	}
	return f, nil
}
