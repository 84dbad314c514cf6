package artboard

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// reservedLayerName is used by project files for metadata entries.
const reservedLayerName = "___meta"

// canonicalName validates a layer name and returns its NFC form.
func canonicalName(name string) (string, error) {
	name = norm.NFC.String(name)
	switch {
	case name == "":
		return "", fmt.Errorf("%w: empty", ErrInvalidName)
	case strings.Contains(name, ","):
		return "", fmt.Errorf("%w: %q contains ','", ErrInvalidName, name)
	case name == reservedLayerName:
		return "", fmt.Errorf("%w: %q is reserved", ErrInvalidName, name)
	}
	return name, nil
}

// nameKey folds case so "Ink" and "INK" collide.
// A Caser is stateful, so each call builds its own.
func nameKey(name string) string {
	return cases.Fold().String(norm.NFC.String(name))
}

// ValidLayerName reports whether name can be given to a layer.
func ValidLayerName(name string) bool {
	_, err := canonicalName(name)
	return err == nil
}
