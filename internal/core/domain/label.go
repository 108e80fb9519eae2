package domain

import (
	"strings"
	"unique"
)

// Label identifies a buildable unit, e.g. "//java/com/example:server_test".
// It wraps a unique.Handle[string] so that labels used as map keys across
// many build states share storage and compare cheaply.
type Label struct {
	h unique.Handle[string]
}

// NewLabel creates a new Label from a string.
func NewLabel(s string) Label {
	return Label{h: unique.Make(s)}
}

// NewLabels creates a Label slice from a string slice.
func NewLabels(s []string) []Label {
	res := make([]Label, len(s))
	for i, v := range s {
		res[i] = NewLabel(v)
	}
	return res
}

// String returns the underlying label string.
func (l Label) String() string {
	return l.h.Value()
}

// IsZero reports whether the label is the zero value.
func (l Label) IsZero() bool {
	return l == Label{}
}

// Deploy returns the synthesized deploy-artifact sibling label.
// For "//pkg:name" it is "//pkg:name_deploy.jar".
func (l Label) Deploy() Label {
	return NewLabel(l.h.Value() + "_deploy.jar")
}

// TargetName returns the part of the label after the colon, or the whole
// label if it has no colon.
func (l Label) TargetName() string {
	s := l.h.Value()
	if i := strings.LastIndexByte(s, ':'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// PackagePath returns the workspace-relative package directory of the label,
// e.g. "java/com/example" for "//java/com/example:server_test".
func (l Label) PackagePath() string {
	s := strings.TrimPrefix(l.h.Value(), "//")
	if i := strings.LastIndexByte(s, ':'); i >= 0 {
		return s[:i]
	}
	return s
}

// MarshalText implements encoding.TextMarshaler.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.h.Value()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Label) UnmarshalText(text []byte) error {
	l.h = unique.Make(string(text))
	return nil
}

// Kind classifies a buildable target, e.g. "java_test".
type Kind string

const (
	// KindJavaTest is a java_test target.
	KindJavaTest Kind = "java_test"
	// KindJavaBinary is a java_binary target.
	KindJavaBinary Kind = "java_binary"
)
