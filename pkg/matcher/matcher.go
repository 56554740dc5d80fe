/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: matcher.go
Description: Byte pattern matcher for the byteclasser scoring engine. Counts greedy,
non-overlapping, left-to-right occurrences of an exact byte sequence in a buffer and
decodes hexadecimal pattern strings into raw bytes.
*/

package matcher

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// PatternDecodeError reports a bytes_pattern that is not valid hexadecimal.
// It is scoped to a single target and never aborts a run.
type PatternDecodeError struct {
	Label   string // Label the target belongs to (empty when decoding standalone)
	Index   int    // Position of the target inside its label
	Pattern string // The offending hex string
	Err     error  // Underlying decoder error
}

func (e *PatternDecodeError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("invalid bytes_pattern %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("label %q target %d: invalid bytes_pattern %q: %v", e.Label, e.Index, e.Pattern, e.Err)
}

func (e *PatternDecodeError) Unwrap() error { return e.Err }

// DecodePattern converts a hex string such as "6162" into its raw bytes.
// Odd length input and non-hex characters yield a *PatternDecodeError.
func DecodePattern(pattern string) ([]byte, error) {
	b, err := hex.DecodeString(pattern)
	if err != nil {
		return nil, &PatternDecodeError{Pattern: pattern, Err: err}
	}
	return b, nil
}

// Count returns the number of non-overlapping matches of pattern in buf.
// The scan is greedy from the left: a match consumes its bytes, so "aa" is
// found once in "aaa". An empty pattern never matches.
func Count(pattern, buf []byte) int {
	n := len(pattern)
	if n == 0 || n > len(buf) {
		return 0
	}

	count := 0
	for i := 0; i <= len(buf)-n; {
		if bytes.HasPrefix(buf[i:], pattern) {
			count++
			i += n
		} else {
			i++
		}
	}
	return count
}
