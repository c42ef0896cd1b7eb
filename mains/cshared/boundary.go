package main

import (
	"strings"

	"github.com/clanpj/stablebot/interop"
)

// bestMove returns the encoded move, or "error;<kind>;<message>". The
// message has no newlines so hosts can read one line.
func bestMove(fen string, depth int) string {
	encoded, err := interop.BestMove(fen, depth)
	if err != nil {
		msg := strings.ReplaceAll(err.Error(), "\n", " ")
		return "error;" + interop.ErrorKind(err) + ";" + msg
	}
	return encoded
}
