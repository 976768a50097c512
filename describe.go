package litmus

import (
	"fmt"
	"reflect"
)

// descriptionUnavailable is the placeholder for values with no useful
// textual representation.
const descriptionUnavailable = "N/A"

// describe renders a value as text on a best-effort basis. Stringer and
// error implementations are preferred; values whose kinds have no useful
// textual form fall back to the placeholder, as does any String/Error
// method that panics (a typed-nil receiver, for instance). All text handed
// to a reporter goes through here first, including panic payloads already
// inside a recovery handler, so this must never panic itself.
func describe(v any) (text string) {
	if v == nil {
		return descriptionUnavailable
	}
	if s, ok := v.(string); ok {
		return s
	}
	defer func() {
		if recover() != nil {
			text = descriptionUnavailable
		}
	}()
	switch x := v.(type) {
	case fmt.Stringer:
		return x.String()
	case error:
		return x.Error()
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return descriptionUnavailable
	}
	return fmt.Sprintf("%v", v)
}
