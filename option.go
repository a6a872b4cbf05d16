// FILE: lixenwraith/execution/option.go
package execution

import (
	"reflect"
	"strconv"
	"strings"
)

// Struct tags recognized on option fields.
//
//	type Options struct {
//	    Port  int      `option:"port,required" gloss:"listen port"`
//	    Hosts []string `option:"hosts" alt:"host, h"`
//	    Build string   `option:",final"`
//	}
//
// The first element of the option tag is the option name (default: the field
// name); "required" and "final" may follow. A separate required:"true" tag is
// also honored.
const (
	TagOption   = "option"
	TagGloss    = "gloss"
	TagAlt      = "alt"
	TagRequired = "required"
)

type optionTag struct {
	name     string
	gloss    string
	required bool
	final    bool
	alts     []string
}

// parseOptionTag reads the option declaration of f. The second result is
// false when f is not an option.
func parseOptionTag(f reflect.StructField) (optionTag, bool) {
	raw, ok := f.Tag.Lookup(TagOption)
	if !ok {
		return optionTag{}, false
	}

	parts := strings.Split(raw, ",")
	tag := optionTag{
		name:  strings.ToLower(strings.TrimSpace(parts[0])),
		gloss: f.Tag.Get(TagGloss),
	}
	if tag.name == "" {
		tag.name = strings.ToLower(f.Name)
	}
	for _, flag := range parts[1:] {
		switch strings.TrimSpace(flag) {
		case "required":
			tag.required = true
		case "final":
			tag.final = true
		}
	}
	if req, ok := f.Tag.Lookup(TagRequired); ok {
		if b, err := strconv.ParseBool(req); err == nil && b {
			tag.required = true
		}
	}
	if alt := strings.TrimSpace(f.Tag.Get(TagAlt)); alt != "" {
		for _, a := range listSeparator.Split(alt, -1) {
			if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
				tag.alts = append(tag.alts, a)
			}
		}
	}
	return tag, true
}

// optionNames lists canonical names and aliases declared by classes.
// Classes that cannot be resolved are skipped.
func optionNames(classes []*Class) []string {
	seen := make(map[string]bool)
	var names []string
	for _, class := range classes {
		v, err := class.resolve()
		if err != nil {
			continue
		}
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			tag, ok := parseOptionTag(t.Field(i))
			if !ok {
				continue
			}
			for _, n := range append([]string{tag.name}, tag.alts...) {
				if !seen[n] {
					seen[n] = true
					names = append(names, n)
				}
			}
		}
	}
	return names
}
