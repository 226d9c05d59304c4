// Package prompt turns collected user input into the system/user instruction
// pair sent to the model. Every builder here is a pure function.
package prompt

import "errors"

// ErrUnknownMode is returned for a selector outside the supported set.
var ErrUnknownMode = errors.New("unknown mode")

// Pair is the two-message conversation sent for one model invocation.
type Pair struct {
	System string `json:"system"`
	User   string `json:"user"`
}

// Truncate keeps the first limit characters of s. A non-positive limit
// leaves s untouched.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
