// FILE: lixenwraith/execution/validate.go
package execution

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
)

var structValidator = validator.New()

// Missing returns every required option no property fulfilled, sorted by
// name. Each option appears once however many aliases it has.
func (r *Registry) Missing() []MissingOption {
	seen := make(map[*requiredMark]bool)
	var missing []MissingOption
	for _, opt := range r.order {
		mark := opt.mark
		if seen[mark] || !mark.required || mark.fulfilled {
			continue
		}
		seen[mark] = true
		missing = append(missing, MissingOption{Name: opt.Name, Field: opt.QualifiedName()})
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i].Name < missing[j].Name })
	return missing
}

// Validate reports every unfulfilled required option and every violated
// `validate` constraint on the bound classes. All problems are collected and
// logged before the joined error is returned.
func (r *Registry) Validate() error {
	var errs []error

	if missing := r.Missing(); len(missing) > 0 {
		for _, m := range missing {
			r.log.Error().Str("option", m.Name).Str("field", m.Field).Msg("missing required option")
		}
		errs = append(errs, &MissingOptionsError{Missing: missing})
	}

	for _, class := range r.classes {
		if err := validateClass(class); err != nil {
			r.log.Error().Err(err).Str("class", class.Name()).Msg("option constraint violated")
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func validateClass(class *Class) error {
	group, err := class.resolve()
	if err != nil {
		return nil
	}
	if !group.CanAddr() {
		return nil
	}
	if err := structValidator.Struct(group.Addr().Interface()); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return nil
		}
		return fmt.Errorf("class %s: %w", class.Name(), err)
	}
	return nil
}
