package board

import "strings"

const (
	numRanks = 8
	numFiles = 8
)

// Grid is the 8x8 piece placement, indexed [rank][file].
// Rank 0 is White's back rank (rank 1), file 0 is the a-file.
type Grid [numRanks][numFiles]Piece

// PieceAt returns the piece on the 0-indexed file and rank.
func (g Grid) PieceAt(file, rank int) Piece {
	if file < 0 || file >= numFiles || rank < 0 || rank >= numRanks {
		return NoPiece
	}
	return g[rank][file]
}

// Set places p on the 0-indexed file and rank.
func (g *Grid) Set(file, rank int, p Piece) {
	g[rank][file] = p
}

// ParsePlacement parses the piece placement field of a FEN string.
// The field is scanned once, from rank 8 down to rank 1, with a file cursor
// that must land on exactly 8 before every '/' and at the end.
func ParsePlacement(placement string) (Grid, error) {
	var g Grid
	rank, file := numRanks-1, 0

	for i := 0; i < len(placement); i++ {
		c := placement[i]
		switch {
		case c == '/':
			if file != numFiles || rank == 0 {
				return Grid{}, charError(InvalidPosition, FieldPlacement, placement, i)
			}
			rank--
			file = 0

		case c >= '1' && c <= '9':
			file += int(c - '0')
			if file > numFiles {
				return Grid{}, charError(RowOverflow, FieldPlacement, placement, i)
			}

		default:
			piece := PieceFromChar(c)
			if piece == NoPiece {
				return Grid{}, charError(InvalidToken, FieldPlacement, placement, i)
			}
			if file >= numFiles {
				return Grid{}, charError(RowOverflow, FieldPlacement, placement, i)
			}
			g[rank][file] = piece
			file++
		}
	}

	if file != numFiles || rank != 0 {
		return Grid{}, fieldError(InvalidPosition, FieldPlacement, placement)
	}
	return g, nil
}

// String returns the placement field for the grid.
func (g Grid) String() string {
	var sb strings.Builder
	sb.Grow(numRanks*numFiles + numRanks - 1)

	for rank := numRanks - 1; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < numFiles; file++ {
			piece := g[rank][file]
			if piece.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(piece.Char())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}
