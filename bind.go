// FILE: lixenwraith/execution/bind.go
package execution

import (
	"fmt"
	"reflect"
	"strings"
	"unsafe"
)

// fieldTarget is a storage location that a raw value can be assigned to.
type fieldTarget struct {
	qualified string
	value     reflect.Value
	final     bool
}

func canonical(key string) string {
	return strings.ToLower(key)
}

// Bind assigns every property to its option field, in property order; on
// duplicate keys the last one wins. A key that names a required option
// fulfills it before assignment is attempted.
//
// Keys that match no option are ignored unless strict is set, in which case
// the key must be reserved or a "class.Field" reference to an exported field
// of a catalogued class.
func (r *Registry) Bind(props *Properties, strict bool) error {
	for _, rawKey := range props.Keys() {
		value, _ := props.Get(rawKey)
		key := canonical(rawKey)

		if mark, ok := r.marks[key]; ok && mark.required {
			mark.fulfilled = true
		}

		if opt, ok := r.options[key]; ok {
			if err := fillField(opt.target(), value); err != nil {
				return err
			}
			continue
		}

		if !strict || rawKey == "" || r.known[key] {
			continue
		}

		target, err := resolveQualifiedField(rawKey)
		if err != nil {
			return err
		}
		if err := fillField(target, value); err != nil {
			return err
		}
	}
	return nil
}

// resolveQualifiedField resolves "class.Field" through the catalog.
func resolveQualifiedField(key string) (fieldTarget, error) {
	dot := strings.LastIndex(key, ".")
	if dot < 0 {
		return fieldTarget{}, fmt.Errorf("%w: %s", ErrUnrecognizedOption, canonical(key))
	}
	className, fieldName := key[:dot], key[dot+1:]

	class, err := LookupClass(className)
	if err != nil {
		return fieldTarget{}, fmt.Errorf("%w: %s; no such class: %s", ErrUnrecognizedOption, key, className)
	}
	group, err := class.resolve()
	if err != nil {
		return fieldTarget{}, fmt.Errorf("%w: %s: %w", ErrUnrecognizedOption, key, err)
	}

	f, ok := group.Type().FieldByName(fieldName)
	if !ok || !f.IsExported() || len(f.Index) != 1 {
		return fieldTarget{}, fmt.Errorf("%w: %s; no such field: %s in class: %s", ErrUnrecognizedOption, key, fieldName, className)
	}

	final := false
	if tag, isOption := parseOptionTag(f); isOption {
		final = tag.final
	}
	return fieldTarget{
		qualified: class.Name() + "." + f.Name,
		value:     group.Field(f.Index[0]),
		final:     final,
	}, nil
}

// fillField coerces raw to the target's type and stores it.
func fillField(t fieldTarget, raw string) (err error) {
	if t.final {
		return fmt.Errorf("%w: %s", ErrFinalOption, t.qualified)
	}
	if !t.value.CanAddr() {
		return fmt.Errorf("%w: %s", ErrNotStatic, t.qualified)
	}

	defer func() {
		if r := recover(); r != nil {
			err = &BindError{Field: t.qualified, Value: raw, Err: fmt.Errorf("%v", r)}
		}
	}()

	return withAccess(t.value, func(v reflect.Value) error {
		val, err := Cast(raw, v.Type())
		if err != nil {
			return &BindError{Field: t.qualified, Value: raw, Err: err}
		}
		if val == nil {
			return &BindError{Field: t.qualified, Value: raw, Err: ErrInvalidType}
		}

		if items, isList := val.([]any); isList {
			kind := v.Kind()
			if kind != reflect.Slice && kind != reflect.Array {
				return &BindError{Field: t.qualified, Value: raw, Err: ErrTypeMismatch}
			}
			list, err := buildList(v.Type(), items)
			if err != nil {
				return &BindError{Field: t.qualified, Value: raw, Err: err}
			}
			v.Set(list)
			return nil
		}

		rv, err := assignable(reflect.ValueOf(val), v.Type())
		if err != nil {
			return &BindError{Field: t.qualified, Value: raw, Err: err}
		}
		v.Set(rv)
		return nil
	})
}

// buildList creates a slice or array of exactly t holding items in order.
func buildList(t reflect.Type, items []any) (reflect.Value, error) {
	var out reflect.Value
	switch t.Kind() {
	case reflect.Slice:
		out = reflect.MakeSlice(t, len(items), len(items))
	case reflect.Array:
		if t.Len() != len(items) {
			return reflect.Value{}, fmt.Errorf("%s holds %d elements, got %d", t, t.Len(), len(items))
		}
		out = reflect.New(t).Elem()
	default:
		return reflect.Value{}, ErrTypeMismatch
	}

	for i, item := range items {
		iv := reflect.ValueOf(item)
		if !iv.IsValid() {
			continue
		}
		ev, err := assignable(iv, t.Elem())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
		}
		out.Index(i).Set(ev)
	}
	return out, nil
}

func assignable(v reflect.Value, t reflect.Type) (reflect.Value, error) {
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	if v.Type().ConvertibleTo(t) {
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: cannot use %s as %s", ErrInvalidType, v.Type(), t)
}

// withAccess runs fn with a settable view of v. Unexported fields are
// reached through their address; the view does not outlive fn.
func withAccess(v reflect.Value, fn func(reflect.Value) error) error {
	if v.CanSet() {
		return fn(v)
	}
	view := accessible(v)
	return fn(view)
}

func accessible(v reflect.Value) reflect.Value {
	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
}
