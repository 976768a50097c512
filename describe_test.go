package litmus

import (
	"errors"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

type stringable struct{}

func (stringable) String() string { return "stringable" }

// nilStringer panics when String is called on a typed-nil receiver.
type nilStringer struct{ name string }

func (s *nilStringer) String() string { return s.name }

// brokenError panics from Error regardless of receiver.
type brokenError struct{}

func (brokenError) Error() string { panic("no message available") }

func TestDescribe(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, "N/A"},
		{"string", "plain text", "plain text"},
		{"int", 42, "42"},
		{"bool", true, "true"},
		{"float", 1.5, "1.5"},
		{"stringer", stringable{}, "stringable"},
		{"duration stringer", 2 * time.Second, "2s"},
		{"error", errors.New("went wrong"), "went wrong"},
		{"slice", []int{1, 2, 3}, "[1 2 3]"},
		{"struct", struct{ A int }{A: 7}, "{7}"},
		{"func", func() {}, "N/A"},
		{"chan", make(chan int), "N/A"},
		{"unsafe pointer", unsafe.Pointer(nil), "N/A"},
		{"typed-nil stringer", (*nilStringer)(nil), "N/A"},
		{"panicking error", brokenError{}, "N/A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describe(tt.value))
		})
	}
}
