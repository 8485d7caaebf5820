package board

import "fmt"

// EnPassantTarget is the square behind a pawn that just advanced two ranks.
// File is 'a'..'h' and Rank is 3 or 6. The zero value means no target.
type EnPassantTarget struct {
	File byte
	Rank uint8
}

// NoEnPassant is the absent target.
var NoEnPassant EnPassantTarget

// ParseEnPassant decodes the en passant field: "-" or a square on rank 3 or 6.
func ParseEnPassant(s string) (EnPassantTarget, error) {
	if s == "-" {
		return NoEnPassant, nil
	}
	if len(s) != 2 {
		return NoEnPassant, fieldError(InvalidEnpassentTarget, FieldEnPassant, s)
	}
	if s[0] < 'a' || s[0] > 'h' {
		return NoEnPassant, charError(InvalidEnpassentTarget, FieldEnPassant, s, 0)
	}
	if s[1] != '3' && s[1] != '6' {
		return NoEnPassant, charError(InvalidEnpassentTarget, FieldEnPassant, s, 1)
	}
	return EnPassantTarget{File: s[0], Rank: s[1] - '0'}, nil
}

// IsSet reports whether a target square is present.
func (ep EnPassantTarget) IsSet() bool {
	return ep.File != 0
}

// Square returns the 0-indexed file and rank of the target.
func (ep EnPassantTarget) Square() (file, rank int) {
	return int(ep.File - 'a'), int(ep.Rank) - 1
}

// String returns the algebraic notation for the target (e.g., "e3"), or "-".
func (ep EnPassantTarget) String() string {
	if !ep.IsSet() {
		return "-"
	}
	return fmt.Sprintf("%c%c", ep.File, '0'+ep.Rank)
}
