// File: lixenwraith/execution/convenience.go
package execution

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"text/tabwriter"

	"github.com/BurntSushi/toml"
	"github.com/davecgh/go-spew/spew"
)

// Usage writes a table of every option declared by classes: name, aliases,
// type, required marker, gloss and current value.
func Usage(w io.Writer, classes []*Class) error {
	reg, err := BuildRegistry(classes)
	if err != nil {
		return err
	}
	return reg.Usage(w)
}

// Usage writes the option table of the registry.
func (r *Registry) Usage(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OPTION\tALIASES\tTYPE\tREQUIRED\tDESCRIPTION\tCURRENT")
	for _, opt := range r.Options() {
		required := ""
		if opt.Required {
			required = "yes"
		}
		fmt.Fprintf(tw, "-%s\t%s\t%s\t%s\t%s\t%v\n",
			opt.Name, strings.Join(opt.Aliases, ","), opt.Type(), required, opt.Gloss, opt.Value())
	}
	return tw.Flush()
}

// UsageAndExit prints a one-line usage message with the expected arguments
// and exits with status 0.
func UsageAndExit(expectedArgs []string) {
	fmt.Fprintf(os.Stdout, "USAGE: %s %s\n", filepath.Base(os.Args[0]), strings.Join(expectedArgs, " "))
	exitFunc(0)
}

// UsageFlagsAndExit prints, for each argument, the set of flags that may
// supply it, and exits with status 0.
func UsageFlagsAndExit(argToFlags map[string][]string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "USAGE: %s\n\t", filepath.Base(os.Args[0]))
	for arg, flags := range argToFlags {
		if len(flags) == 0 {
			return fmt.Errorf("no flags registered for arg: %s", arg)
		}
		fmt.Fprintf(&b, "{%s}", strings.Join(flags, ","))
	}
	fmt.Fprintln(os.Stdout, b.String())
	exitFunc(0)
	return nil
}

// Dump writes the current option values as TOML. Dotted option names
// become nested tables.
func (r *Registry) Dump(w io.Writer) error {
	nested := make(map[string]any)
	for _, opt := range r.Options() {
		v := reflect.ValueOf(opt.Value())
		if !v.IsValid() {
			continue
		}
		if (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface || v.Kind() == reflect.Slice) && v.IsNil() {
			continue
		}
		setNestedValue(nested, opt.Name, opt.Value())
	}

	return toml.NewEncoder(w).Encode(nested)
}

// Debug returns a formatted string showing every option with its
// declaring field and current value.
func (r *Registry) Debug() string {
	var b strings.Builder
	b.WriteString("Options:\n")

	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
	for _, opt := range r.Options() {
		b.WriteString(fmt.Sprintf("  %s (%s):\n", opt.Name, opt.QualifiedName()))
		if len(opt.Aliases) > 0 {
			b.WriteString(fmt.Sprintf("    Aliases: %s\n", strings.Join(opt.Aliases, ", ")))
		}
		b.WriteString(fmt.Sprintf("    Required: %t Fulfilled: %t\n", opt.Required, opt.mark.fulfilled))
		b.WriteString("    Value: " + cfg.Sdump(opt.Value()))
	}

	return b.String()
}
