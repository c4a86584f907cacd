package isa

import (
	"strings"
)

var cNameReplacer = strings.NewReplacer("#", "__", "-", "_", ".", "_")

// cName converts a specification name into a C identifier fragment.
func cName(name string) string {
	return cNameReplacer.Replace(strings.ToLower(name))
}
