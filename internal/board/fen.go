// Package board parses and serializes Forsyth-Edwards Notation (FEN).
package board

import (
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// EmptyFEN is what the zero Position serializes to.
const EmptyFEN = "8/8/8/8/8/8/8/8 b - - 0 0"

// maxCounter bounds both move counters: only single digits are accepted.
const maxCounter = 9

// Position is the decoded content of a FEN string.
//
// The zero value is the empty record: an empty board, no side to move,
// no castling rights, no en passant target and zero counters. Parse
// returns it for blank input. Every other successful Parse yields a
// populated record with a real side to move.
//
// SideToMove serializes as 'w' when White, except on the empty record.
// A record assigned field by field is populated as soon as any field is
// non-zero; SetSideToMove marks it populated explicitly, which is needed
// for an empty board with White to move and zero counters.
type Position struct {
	Board          Grid
	SideToMove     Color
	Castling       CastlingRights
	EnPassant      EnPassantTarget
	HalfMoveClock  uint8
	FullMoveNumber uint8

	populated bool
}

// NewPosition returns the starting position.
func NewPosition() Position {
	pos, err := Parse(StartFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

// IsEmpty reports whether p is the empty record: the zero value, never
// populated by Parse or SetSideToMove.
func (p *Position) IsEmpty() bool {
	return *p == Position{}
}

// SetSideToMove sets the side to move and marks the record as populated.
func (p *Position) SetSideToMove(c Color) {
	p.SideToMove = c
	p.populated = true
}

// fieldDecoders decode the six FEN fields in order. Each writes its result
// into the position under construction.
var fieldDecoders = [fieldCount]func(pos *Position, s string) error{
	FieldPlacement: func(pos *Position, s string) (err error) {
		pos.Board, err = ParsePlacement(s)
		return err
	},
	FieldSideToMove: func(pos *Position, s string) error {
		switch s {
		case "w":
			pos.SideToMove = White
		case "b":
			pos.SideToMove = Black
		default:
			return fieldError(InvalidPlayer, FieldSideToMove, s)
		}
		return nil
	},
	FieldCastling: func(pos *Position, s string) (err error) {
		pos.Castling, err = ParseCastlingRights(s)
		return err
	},
	FieldEnPassant: func(pos *Position, s string) (err error) {
		pos.EnPassant, err = ParseEnPassant(s)
		return err
	},
	FieldHalfMoveClock: func(pos *Position, s string) (err error) {
		pos.HalfMoveClock, err = parseCounter(FieldHalfMoveClock, s)
		return err
	},
	FieldFullMoveNumber: func(pos *Position, s string) (err error) {
		pos.FullMoveNumber, err = parseCounter(FieldFullMoveNumber, s)
		return err
	},
}

// Parse parses a FEN string and returns the Position it describes.
// Surrounding whitespace is ignored and blank input yields the empty
// record. Otherwise the notation must hold exactly six fields separated by
// single spaces. The first invalid field aborts parsing; its error is a
// *ParseError wrapping one of the ErrorKind values.
func Parse[T ~string | ~[]byte](notation T) (Position, error) {
	fen := strings.TrimSpace(string(notation))
	if fen == "" {
		return Position{}, nil
	}

	if strings.Count(fen, " ")+1 != int(fieldCount) {
		return Position{}, fieldError(InsufficentFields, fieldCount, fen)
	}

	pos := Position{populated: true}
	for field, value := range strings.Split(fen, " ") {
		if err := fieldDecoders[field](&pos, value); err != nil {
			return Position{}, err
		}
	}
	return pos, nil
}

// parseCounter accepts an unsigned decimal with at most one leading '+'.
func parseCounter(field Field, s string) (uint8, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, 8)
	if err != nil || n > maxCounter {
		return 0, fieldError(InvalidNumericValue, field, s)
	}
	return uint8(n), nil
}

// sideChar returns 'w' for White to move, 'b' for Black and for the empty record.
func (p *Position) sideChar() byte {
	if p.SideToMove == White && !p.IsEmpty() {
		return 'w'
	}
	return 'b'
}

// Key returns the first four FEN fields, omitting the move counters.
// Positions that differ only in their clocks share a key.
func (p *Position) Key() string {
	var sb strings.Builder

	sb.WriteString(p.Board.String())

	sb.WriteByte(' ')
	sb.WriteByte(p.sideChar())

	sb.WriteByte(' ')
	if p.Castling.Any() {
		sb.WriteString(p.Castling.String())
	} else {
		sb.WriteByte('-')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())

	return sb.String()
}

// String returns the FEN representation of the position.
func (p Position) String() string {
	var sb strings.Builder
	sb.WriteString(p.Key())

	// Half-move clock and full-move number
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(int(p.HalfMoveClock)))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(int(p.FullMoveNumber)))

	return sb.String()
}

// MarshalText implements encoding.TextMarshaler. The empty record marshals
// to blank text so that UnmarshalText restores it unchanged.
func (p Position) MarshalText() ([]byte, error) {
	if p.IsEmpty() {
		return []byte{}, nil
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Position) UnmarshalText(text []byte) error {
	pos, err := Parse(text)
	if err != nil {
		return err
	}
	*p = pos
	return nil
}

// Diagram renders the board as eight lines from rank 8 down to rank 1,
// with '.' for empty squares, followed by a file legend.
func (p *Position) Diagram() string {
	var sb strings.Builder
	for rank := numRanks - 1; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		sb.WriteString("  ")
		for file := 0; file < numFiles; file++ {
			if file > 0 {
				sb.WriteByte(' ')
			}
			piece := p.Board[rank][file]
			if piece.IsEmpty() {
				sb.WriteByte('.')
			} else {
				sb.WriteByte(piece.Char())
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   a b c d e f g h\n")
	return sb.String()
}
