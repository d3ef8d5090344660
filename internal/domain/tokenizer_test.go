package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: []string{}},
		{name: "whitespace only", input: " \t\r\n  ", want: []string{}},
		{name: "single token", input: "DEBIT", want: []string{"DEBIT"}},
		{
			name:  "mixed whitespace runs",
			input: "\tDEBIT   100\r\nUSD \n",
			want:  []string{"DEBIT", "100", "USD"},
		},
		{
			name:  "other characters are kept",
			input: "a.b@c-d  x,y",
			want:  []string{"a.b@c-d", "x,y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}
