package rowskema

import (
	"reflect"
	"strings"
)

// ResolveColumnKey resolves a struct field's column label and position.
// Priority: csv:"label,pos=N" > field name; "-" disables the field.
func ResolveColumnKey(sf reflect.StructField) (label string, position int) {
	tag, ok := sf.Tag.Lookup("csv")
	if !ok || tag == "" {
		return sf.Name, 0
	}
	if tag == "-" {
		return "-", 0
	}
	parts := strings.Split(tag, ",")
	label = strings.TrimSpace(parts[0])
	if label == "" {
		label = sf.Name
	}
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		if v, ok := strings.CutPrefix(p, "pos="); ok {
			position = atoiOrZero(v)
		}
	}
	return label, position
}

func atoiOrZero(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
