package recipe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitLines(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want []string
	}{
		{"single", "flour", []string{"flour"}},
		{"crlf", "200g flour\r\n2 eggs\r\n", []string{"200g flour", "2 eggs"}},
		{"blank lines dropped", "\n  salt  \n\n\tpepper\n   \n", []string{"salt", "pepper"}},
		{"empty", "", []string{}},
		{"whitespace only", " \n \r\n ", []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, SplitLines(tc.in))
		})
	}
}

func TestSplitTags(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want []string
	}{
		{"trimmed", " vegan , quick,dessert ", []string{"vegan", "quick", "dessert"}},
		{"empty entries dropped", "a,,b, ,", []string{"a", "b"}},
		{"empty", "", []string{}},
		{"case kept", "Vegan", []string{"Vegan"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, SplitTags(tc.in))
		})
	}
}
