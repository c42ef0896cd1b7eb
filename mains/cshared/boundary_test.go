package main

import (
	"strings"
	"testing"
)

func TestBestMove(t *testing.T) {
	tests := []struct {
		fen      string
		depth    int
		expected string
	}{
		{"6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1", 2, "a1;a8;none"},
		{"8/4P3/8/8/8/8/k7/4K3 w - - 0 1", 1, "e7;e8;queen"},
		{"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", 1, "error;no_legal_moves;"},
		{"not a fen", 1, "error;invalid_fen;"},
		{"6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1", -1, "error;invalid_depth;"},
	}

	for _, test := range tests {
		got := bestMove(test.fen, test.depth)
		if !strings.HasPrefix(got, test.expected) {
			t.Errorf("bestMove(%q, %d) = %q, expected %q", test.fen, test.depth, got, test.expected)
		}
	}
}
