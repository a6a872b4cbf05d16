// FILE: lixenwraith/execution/catalog.go
package execution

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Class is a named option group: a struct whose tagged fields are options.
// A group registered through a pointer to package-level storage is static
// and can be bound; one registered by value is an instance copy and cannot.
type Class struct {
	name  string
	value reflect.Value
	load  func() (any, error)
	mu    sync.Mutex
}

// Name returns the class identifier: the import path with "/" replaced by
// "." followed by the type name, e.g. "example.com.app.server.Options".
func (c *Class) Name() string {
	return c.name
}

func (c *Class) String() string {
	return c.name
}

// resolve initializes a lazily registered class and returns its struct value.
func (c *Class) resolve() (reflect.Value, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.value.IsValid() && c.load != nil {
		group, err := c.load()
		if err != nil {
			return reflect.Value{}, fmt.Errorf("could not initialize class %s: %w", c.name, err)
		}
		v, err := groupValue(group)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("class %s: %w", c.name, err)
		}
		c.value = v
	}
	if !c.value.IsValid() {
		return reflect.Value{}, fmt.Errorf("class %s has no storage", c.name)
	}
	return c.value, nil
}

// ClassName derives the class identifier of a struct type.
func ClassName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return strings.ReplaceAll(t.PkgPath(), "/", ".") + "." + t.Name()
}

// groupValue returns the struct value behind group. Pointers yield an
// addressable value.
func groupValue(group any) (reflect.Value, error) {
	v := reflect.ValueOf(group)
	if !v.IsValid() {
		return reflect.Value{}, fmt.Errorf("option group is nil")
	}
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("option group %T is a nil pointer", group)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("option group must be a struct or struct pointer, got %T", group)
	}
	return v, nil
}

// ClassOf wraps group as a class without adding it to the catalog.
// It panics if group is not a struct or struct pointer.
func ClassOf(group any) *Class {
	v, err := groupValue(group)
	if err != nil {
		panic(err)
	}
	return &Class{name: ClassName(v.Type()), value: v}
}

var catalog = struct {
	mu      sync.RWMutex
	classes map[string]*Class
}{classes: make(map[string]*Class)}

// Register adds group to the process-wide catalog under its class name.
// Registering the same storage twice returns the existing class.
func Register(group any) (*Class, error) {
	v, err := groupValue(group)
	if err != nil {
		return nil, err
	}
	return RegisterNamed(ClassName(v.Type()), group)
}

// RegisterNamed adds group to the catalog under an explicit name, for
// packages holding several groups of one type.
func RegisterNamed(name string, group any) (*Class, error) {
	v, err := groupValue(group)
	if err != nil {
		return nil, err
	}

	catalog.mu.Lock()
	defer catalog.mu.Unlock()

	if existing, ok := catalog.classes[name]; ok {
		if existing.value.IsValid() && existing.value.CanAddr() && v.CanAddr() &&
			existing.value.UnsafeAddr() == v.UnsafeAddr() {
			return existing, nil
		}
		return nil, fmt.Errorf("class %s already registered", name)
	}

	class := &Class{name: name, value: v}
	catalog.classes[name] = class
	return class, nil
}

// MustRegister is like Register but panics on error. Intended for
// package-level variable initialization.
func MustRegister(group any) *Class {
	class, err := Register(group)
	if err != nil {
		panic(fmt.Sprintf("option class registration failed: %v", err))
	}
	return class
}

// RegisterLazy adds a class whose storage is produced by load the first time
// its fields are enumerated. Discovery resolves the name without calling load.
func RegisterLazy(name string, load func() (any, error)) (*Class, error) {
	if load == nil {
		return nil, fmt.Errorf("class %s: nil loader", name)
	}

	catalog.mu.Lock()
	defer catalog.mu.Unlock()

	if _, ok := catalog.classes[name]; ok {
		return nil, fmt.Errorf("class %s already registered", name)
	}
	class := &Class{name: name, load: load}
	catalog.classes[name] = class
	return class, nil
}

// Unregister removes a class from the catalog.
func Unregister(name string) error {
	catalog.mu.Lock()
	defer catalog.mu.Unlock()

	if _, ok := catalog.classes[name]; !ok {
		return fmt.Errorf("%w: %s", ErrClassNotFound, name)
	}
	delete(catalog.classes, name)
	return nil
}

// LookupClass resolves a class identifier without initializing the class.
func LookupClass(name string) (*Class, error) {
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()

	class, ok := catalog.classes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrClassNotFound, name)
	}
	return class, nil
}

// Classes returns every catalogued class sorted by name.
func Classes() []*Class {
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()

	out := make([]*Class, 0, len(catalog.classes))
	for _, class := range catalog.classes {
		out = append(out, class)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}
