package board

import "strings"

// CastlingRights holds the four independent castling flags.
type CastlingRights struct {
	WhiteKingSide  bool
	WhiteQueenSide bool
	BlackKingSide  bool
	BlackQueenSide bool
}

// AllCastling grants every right, as in the starting position.
var AllCastling = CastlingRights{true, true, true, true}

// ParseCastlingRights decodes the castling field. "-" grants nothing;
// otherwise every character must be one of K, Q, k or q. Repeats are allowed.
func ParseCastlingRights(castling string) (CastlingRights, error) {
	var cr CastlingRights
	if castling == "-" {
		return cr, nil
	}

	for i := 0; i < len(castling); i++ {
		piece := PieceFromChar(castling[i])
		if !cr.grant(piece) {
			return CastlingRights{}, charError(InvalidCastlingStatus, FieldCastling, castling, i)
		}
	}
	return cr, nil
}

// grant enables the wing named by a king or queen character.
func (cr *CastlingRights) grant(p Piece) bool {
	switch p {
	case WhiteKing:
		cr.WhiteKingSide = true
	case WhiteQueen:
		cr.WhiteQueenSide = true
	case BlackKing:
		cr.BlackKingSide = true
	case BlackQueen:
		cr.BlackQueenSide = true
	default:
		return false
	}
	return true
}

// Any reports whether at least one right is held.
func (cr CastlingRights) Any() bool {
	return cr.WhiteKingSide || cr.WhiteQueenSide || cr.BlackKingSide || cr.BlackQueenSide
}

// String returns the rights in KQkq order. It is empty when no right is held;
// the full notation writes "-" in that case.
func (cr CastlingRights) String() string {
	var sb strings.Builder
	if cr.WhiteKingSide {
		sb.WriteByte('K')
	}
	if cr.WhiteQueenSide {
		sb.WriteByte('Q')
	}
	if cr.BlackKingSide {
		sb.WriteByte('k')
	}
	if cr.BlackQueenSide {
		sb.WriteByte('q')
	}
	return sb.String()
}
