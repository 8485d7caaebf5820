package board

import "fmt"

// ErrorKind classifies why a FEN string was rejected.
// ErrorKind implements error so callers can match with errors.Is.
type ErrorKind uint8

const (
	RowOverflow ErrorKind = iota + 1
	// ColOverflow is reserved for the column axis; the parser never produces it.
	ColOverflow
	InvalidToken
	InvalidPosition
	InvalidPlayer
	InvalidCastlingStatus
	InvalidEnpassentTarget
	InvalidNumericValue
	InsufficentFields
)

var errorKindNames = [...]string{
	RowOverflow:            "RowOverflow",
	ColOverflow:            "ColOverflow",
	InvalidToken:           "InvalidToken",
	InvalidPosition:        "InvalidPosition",
	InvalidPlayer:          "InvalidPlayer",
	InvalidCastlingStatus:  "InvalidCastlingStatus",
	InvalidEnpassentTarget: "InvalidEnpassentTarget",
	InvalidNumericValue:    "InvalidNumericValue",
	InsufficentFields:      "InsufficentFields",
}

var errorKindMessages = [...]string{
	RowOverflow:            "rank holds more than 8 files",
	ColOverflow:            "column out of range",
	InvalidToken:           "invalid character in piece placement",
	InvalidPosition:        "ranks do not describe an 8x8 board",
	InvalidPlayer:          "side to move must be w or b",
	InvalidCastlingStatus:  "invalid castling rights",
	InvalidEnpassentTarget: "invalid en passant target",
	InvalidNumericValue:    "move counter must be a single digit",
	InsufficentFields:      "need exactly 6 space separated fields",
}

// String returns the identifier name of the kind, e.g. "RowOverflow".
func (k ErrorKind) String() string {
	if int(k) >= len(errorKindNames) || errorKindNames[k] == "" {
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
	return errorKindNames[k]
}

func (k ErrorKind) Error() string {
	if int(k) >= len(errorKindMessages) || errorKindMessages[k] == "" {
		return "fen: unknown error"
	}
	return "fen: " + errorKindMessages[k]
}

// ParseErrorKind returns the kind whose String() is name.
func ParseErrorKind(name string) (ErrorKind, bool) {
	for k, n := range errorKindNames {
		if n != "" && n == name {
			return ErrorKind(k), true
		}
	}
	return 0, false
}

// Field identifies one of the six FEN fields.
type Field uint8

const (
	FieldPlacement Field = iota
	FieldSideToMove
	FieldCastling
	FieldEnPassant
	FieldHalfMoveClock
	FieldFullMoveNumber
	fieldCount
)

// String returns the field name.
func (f Field) String() string {
	switch f {
	case FieldPlacement:
		return "placement"
	case FieldSideToMove:
		return "side to move"
	case FieldCastling:
		return "castling"
	case FieldEnPassant:
		return "en passant"
	case FieldHalfMoveClock:
		return "halfmove clock"
	case FieldFullMoveNumber:
		return "fullmove number"
	default:
		return "notation"
	}
}

// ParseError describes the first violation found in a FEN string.
type ParseError struct {
	Kind  ErrorKind
	Field Field
	Input string // the offending field, or the whole notation for field-count errors

	// Offset and Char locate the offending byte inside Input.
	// Offset is -1 when the error is about the field as a whole.
	Offset int
	Char   byte
}

func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%v: %s %q at offset %d (%q)", e.Kind, e.Field, e.Input, e.Offset, e.Char)
	}
	return fmt.Sprintf("%v: %s %q", e.Kind, e.Field, e.Input)
}

// Unwrap returns the error kind.
func (e *ParseError) Unwrap() error {
	return e.Kind
}

func fieldError(kind ErrorKind, field Field, input string) *ParseError {
	return &ParseError{Kind: kind, Field: field, Input: input, Offset: -1}
}

func charError(kind ErrorKind, field Field, input string, offset int) *ParseError {
	return &ParseError{Kind: kind, Field: field, Input: input, Offset: offset, Char: input[offset]}
}
