// Package random builds random fixtures for tests.
package random

import (
	"math/rand"
	"strings"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// String returns a random string of n characters
func String(n int) string {
	var sb strings.Builder
	k := len(alphabet)
	for i := 0; i < n; i++ {
		sb.WriteByte(alphabet[rand.Intn(k)])
	}
	return sb.String()
}

// Email returns a random email
func Email() string {
	return String(10) + "@example.com"
}

// StringSlice creates a slice of length n containing random strings
func StringSlice(n int) []string {
	ss := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ss = append(ss, String(10))
	}
	return ss
}

// Lines joins n random strings with newlines, the way multi-line form
// fields arrive.
func Lines(n int) string {
	return strings.Join(StringSlice(n), "\n")
}

// Rating returns a random rating between 1 and 5.
func Rating() int {
	return rand.Intn(5) + 1
}
