// Package assert provides minimal test assertions.
package assert

import (
	"errors"
	"reflect"
	"testing"
)

// Equal fails the test if actual and expected are not equal.
func Equal[T comparable](t *testing.T, actual, expected T) {
	t.Helper()

	if actual != expected {
		t.Errorf("got: %v; want: %v", actual, expected)
	}
}

// True fails the test if actual is not true.
func True(t *testing.T, actual bool) {
	t.Helper()

	if !actual {
		t.Errorf("got: false; want: true")
	}
}

// False fails the test if actual is not false.
func False(t *testing.T, actual bool) {
	t.Helper()

	if actual {
		t.Errorf("got: true; want: false")
	}
}

// Nil fails the test if actual is not nil.
func Nil(t *testing.T, actual any) {
	t.Helper()

	if !isNil(actual) {
		t.Errorf("got: %v; expected: nil", actual)
	}
}

// NotNil fails the test if actual is nil.
func NotNil(t *testing.T, actual any) {
	t.Helper()

	if isNil(actual) {
		t.Errorf("got: nil; expected: non-nil")
	}
}

// ErrorIs fails the test if err does not wrap target.
func ErrorIs(t *testing.T, err, target error) {
	t.Helper()

	if !errors.Is(err, target) {
		t.Errorf("got error: %v; want: %v", err, target)
	}
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return rv.IsNil()
	}

	return false
}
