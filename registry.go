// FILE: lixenwraith/execution/registry.go
package execution

import (
	"fmt"
	"reflect"
	"sort"
)

// requiredMark tracks whether a required option was supplied. The canonical
// name and every alias of an option share one mark.
type requiredMark struct {
	required  bool
	fulfilled bool
}

// Option is one discovered option field.
type Option struct {
	Name     string   // canonical lower-cased name
	Aliases  []string // lower-cased alternate names
	Gloss    string
	Required bool
	Final    bool

	class *Class
	field reflect.StructField
	value reflect.Value // storage location inside the group
	mark  *requiredMark
}

// QualifiedName returns "class.Field".
func (o *Option) QualifiedName() string {
	return o.class.Name() + "." + o.field.Name
}

// Class returns the declaring class.
func (o *Option) Class() *Class {
	return o.class
}

// Type returns the declared field type.
func (o *Option) Type() reflect.Type {
	return o.field.Type
}

// Value returns the current field value.
func (o *Option) Value() any {
	v := o.value
	if !v.CanInterface() {
		v = accessible(v)
	}
	return v.Interface()
}

func (o *Option) target() fieldTarget {
	return fieldTarget{qualified: o.QualifiedName(), value: o.value, final: o.Final}
}

// Registry maps option names and aliases to their fields for one run.
type Registry struct {
	options map[string]*Option
	marks   map[string]*requiredMark
	order   []*Option // canonical registrations in discovery order
	classes []*Class  // classes that declared at least one option
	known   map[string]bool
	log     *Tracker
}

// BuildRegistry discovers the options declared by classes. Classes whose
// fields cannot be enumerated are logged and skipped; declaration errors
// abort the build.
func BuildRegistry(classes []*Class) (*Registry, error) {
	return buildRegistry(Log(), classes)
}

func buildRegistry(log *Tracker, classes []*Class) (*Registry, error) {
	r := &Registry{
		options: make(map[string]*Option),
		marks:   make(map[string]*requiredMark),
		known:   make(map[string]bool),
		log:     log,
	}

	for _, class := range classes {
		group, err := class.resolve()
		if err != nil {
			log.Debug().Err(err).Str("class", class.Name()).Msg("could not check fields for class")
			continue
		}

		declared := false
		t := group.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			tag, ok := parseOptionTag(f)
			if !ok {
				continue
			}
			if !group.CanAddr() {
				return nil, fmt.Errorf("%w: %s.%s", ErrNotStatic, class.Name(), f.Name)
			}
			declared = true

			opt := &Option{
				Name:     tag.name,
				Aliases:  tag.alts,
				Gloss:    tag.gloss,
				Required: tag.required,
				Final:    tag.final,
				class:    class,
				field:    f,
				value:    group.Field(i),
				mark:     &requiredMark{required: tag.required},
			}
			if err := r.add(opt); err != nil {
				return nil, err
			}
		}
		if declared {
			r.classes = append(r.classes, class)
		}
	}

	return r, nil
}

// sameStorage reports whether two options write the same location. Class
// names are not enough: two variables of one struct type share them.
func sameStorage(a, b *Option) bool {
	return a.field.Type == b.field.Type && a.value.UnsafeAddr() == b.value.UnsafeAddr()
}

func (r *Registry) add(opt *Option) error {
	if existing, ok := r.options[opt.Name]; ok {
		if !sameStorage(existing, opt) {
			return fmt.Errorf("%w %s: %s and %s", ErrDuplicateOption, opt.Name, existing.QualifiedName(), opt.QualifiedName())
		}
		r.log.Warn().Str("class", opt.class.Name()).Msg("class is visible multiple times")
		return nil
	}

	for _, alt := range opt.Aliases {
		if existing, ok := r.options[alt]; ok && !sameStorage(existing, opt) {
			return fmt.Errorf("%w %s: %s and %s", ErrDuplicateOption, alt, existing.QualifiedName(), opt.QualifiedName())
		}
	}

	r.options[opt.Name] = opt
	r.marks[opt.Name] = opt.mark
	r.order = append(r.order, opt)
	for _, alt := range opt.Aliases {
		r.options[alt] = opt
		if opt.Required {
			r.marks[alt] = opt.mark
		}
	}
	return nil
}

// reserve marks names consumed elsewhere so a strict Bind skips them.
func (r *Registry) reserve(names ...string) {
	for _, name := range names {
		r.known[canonical(name)] = true
	}
}

// Lookup resolves a canonical name or alias, case-insensitively.
func (r *Registry) Lookup(name string) (*Option, bool) {
	opt, ok := r.options[canonical(name)]
	return opt, ok
}

// Options returns every option once, sorted by canonical name.
func (r *Registry) Options() []*Option {
	out := append([]*Option(nil), r.order...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns every registered key, aliases included, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.options))
	for name := range r.options {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Classes returns the classes that declared options.
func (r *Registry) Classes() []*Class {
	return append([]*Class(nil), r.classes...)
}

// Fulfilled reports whether a required option has been supplied. Options
// that are not required report false.
func (r *Registry) Fulfilled(name string) bool {
	mark, ok := r.marks[canonical(name)]
	return ok && mark.required && mark.fulfilled
}
