// Package test contains helpers shared by package tests.
package test

import (
	"errors"
	"slices"
	"testing"

	"go.uber.org/multierr"

	"github.com/ava12/packrat"
)

// ErrorCodes returns codes of all packrat errors combined in e.
func ErrorCodes(e error) []int {
	var res []int
	for _, ee := range multierr.Errors(e) {
		var pe *packrat.Error
		if errors.As(ee, &pe) {
			res = append(res, pe.Code)
		}
	}
	return res
}

// ExpectErrorCode fails the test unless e is or combines a packrat error with expected code.
func ExpectErrorCode(t *testing.T, expected int, e error) {
	t.Helper()
	codes := ErrorCodes(e)
	if !slices.Contains(codes, expected) {
		t.Fatalf("expecting error code %d, got %v (codes %v)", expected, e, codes)
	}
}

// ExpectErrorCodes fails the test unless e combines packrat errors with exactly expected codes in order.
func ExpectErrorCodes(t *testing.T, expected []int, e error) {
	t.Helper()
	codes := ErrorCodes(e)
	if !slices.Equal(expected, codes) {
		t.Fatalf("expecting error codes %v, got %v (%v)", expected, codes, e)
	}
}
