// FILE: lixenwraith/execution/properties.go
package execution

// Properties is an ordered set of string key/value pairs. Keys keep the
// position of their first insertion; setting an existing key replaces its value.
type Properties struct {
	keys   []string
	values map[string]string
}

// NewProperties creates an empty property set.
func NewProperties() *Properties {
	return &Properties{values: make(map[string]string)}
}

// PropertiesOf builds a property set from alternating keys and values.
// A trailing key without a value is stored as "true".
func PropertiesOf(kv ...string) *Properties {
	p := NewProperties()
	for i := 0; i < len(kv); i += 2 {
		if i+1 < len(kv) {
			p.Set(kv[i], kv[i+1])
		} else {
			p.Set(kv[i], "true")
		}
	}
	return p
}

// Set stores value under key.
func (p *Properties) Set(key, value string) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	if _, exists := p.values[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value stored under key.
func (p *Properties) Get(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	v, ok := p.values[key]
	return v, ok
}

// Delete removes key from the set.
func (p *Properties) Delete(key string) {
	if p == nil {
		return
	}
	if _, exists := p.values[key]; !exists {
		return
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Len returns the number of keys.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Clone returns an independent copy.
func (p *Properties) Clone() *Properties {
	out := NewProperties()
	if p == nil {
		return out
	}
	for _, k := range p.keys {
		out.Set(k, p.values[k])
	}
	return out
}

// Merge returns a new set containing p overlaid with overrides.
// Values from overrides win on identical keys.
func (p *Properties) Merge(overrides *Properties) *Properties {
	out := p.Clone()
	if overrides == nil {
		return out
	}
	for _, k := range overrides.keys {
		out.Set(k, overrides.values[k])
	}
	return out
}
