package board

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestParseStartPosition(t *testing.T) {
	pos, err := Parse(StartFEN)
	if err != nil {
		t.Fatalf("Failed to parse start FEN: %v", err)
	}

	if pos.SideToMove != White {
		t.Errorf("Expected White to move, got %v", pos.SideToMove)
	}
	if pos.Castling != AllCastling {
		t.Errorf("Expected all castling rights, got %+v", pos.Castling)
	}
	if pos.EnPassant.IsSet() {
		t.Errorf("Expected no en passant target, got %v", pos.EnPassant)
	}
	if pos.HalfMoveClock != 0 || pos.FullMoveNumber != 1 {
		t.Errorf("Expected clocks 0 1, got %d %d", pos.HalfMoveClock, pos.FullMoveNumber)
	}
	if pos.IsEmpty() {
		t.Error("Parsed start position reports empty")
	}
	if got := pos.Board.PieceAt(4, 0); got != WhiteKing {
		t.Errorf("e1: got %v, want %v", got, WhiteKing)
	}
	if got := pos.Board.PieceAt(3, 7); got != BlackQueen {
		t.Errorf("d8: got %v, want %v", got, BlackQueen)
	}
	if got := pos.String(); got != StartFEN {
		t.Errorf("String() = %q, want %q", got, StartFEN)
	}
	if pos != NewPosition() {
		t.Error("Parse(StartFEN) differs from NewPosition()")
	}
}

func TestParseSicilian(t *testing.T) {
	notation := "rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w Kkq c6 0 2"
	pos, err := Parse(notation)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := CastlingRights{WhiteKingSide: true, BlackKingSide: true, BlackQueenSide: true}
	if pos.Castling != want {
		t.Errorf("Castling: got %+v, want %+v", pos.Castling, want)
	}
	if pos.EnPassant != (EnPassantTarget{File: 'c', Rank: 6}) {
		t.Errorf("EnPassant: got %v, want c6", pos.EnPassant)
	}
	if pos.FullMoveNumber != 2 {
		t.Errorf("FullMoveNumber: got %d, want 2", pos.FullMoveNumber)
	}
	if got := pos.Board.PieceAt(2, 4); got != BlackPawn {
		t.Errorf("c5: got %v, want %v", got, BlackPawn)
	}
	if got := pos.Board.PieceAt(4, 3); got != WhitePawn {
		t.Errorf("e4: got %v, want %v", got, WhitePawn)
	}
	if got := pos.String(); got != notation {
		t.Errorf("String() = %q, want %q", got, notation)
	}
}

func TestParseEmpty(t *testing.T) {
	for _, input := range []string{"", "    ", "\t\n "} {
		pos, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", input, err)
		}
		if pos != (Position{}) {
			t.Errorf("Parse(%q) = %+v, want the empty record", input, pos)
		}
		if !pos.IsEmpty() {
			t.Errorf("Parse(%q) not reported as empty", input)
		}
	}

	var empty Position
	if got := empty.String(); got != EmptyFEN {
		t.Errorf("empty String() = %q, want %q", got, EmptyFEN)
	}
}

func TestParseBytes(t *testing.T) {
	pos, err := Parse([]byte(StartFEN))
	if err != nil {
		t.Fatalf("Parse([]byte) failed: %v", err)
	}
	if pos != NewPosition() {
		t.Error("Parse([]byte) differs from the string form")
	}
}

func TestRoundTrip(t *testing.T) {
	cases := []string{
		StartFEN,
		"rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 1",
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		"8/8/8/8/8/8/8/8 w Qk - 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r1b1kbnr/pppp1ppp/2n5/4P3/1q6/5N2/PPPBPPPP/RN1QKB1R b KQkq - 6 5",
		EmptyFEN,
	}

	for _, notation := range cases {
		t.Run(notation, func(t *testing.T) {
			pos, err := Parse(notation)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if got := pos.String(); got != notation {
				t.Errorf("String() = %q, want %q", got, notation)
			}
			again, err := Parse(pos.String())
			if err != nil {
				t.Fatalf("Reparse failed: %v", err)
			}
			if again != pos {
				t.Errorf("Reparsed position differs: %+v vs %+v", again, pos)
			}
		})
	}
}

func TestNormalizes(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  " + StartFEN + "\n", StartFEN},
		{"8/8/8/8/8/8/8/8 w qkQK - 0 1", "8/8/8/8/8/8/8/8 w KQkq - 0 1"},
		{"8/8/8/8/8/8/8/8 w KKk - 0 1", "8/8/8/8/8/8/8/8 w Kk - 0 1"},
		{"8/8/8/8/8/8/8/8 b - - 05 09", "8/8/8/8/8/8/8/8 b - - 5 9"},
		{"44/8/8/8/8/8/8/8 w - - 0 1", "8/8/8/8/8/8/8/8 w - - 0 1"},
		{"1111k3/8/8/8/8/8/8/4K3 w - - 0 1", "4k3/8/8/8/8/8/8/4K3 w - - 0 1"},
	}

	for _, c := range cases {
		pos, err := Parse(c.in)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", c.in, err)
			continue
		}
		if got := pos.String(); got != c.want {
			t.Errorf("Parse(%q).String() = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		want ErrorKind
	}{
		{"five fields", "8/8/8/8 w K - 0 1", InsufficentFields},
		{"four fields", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -", InsufficentFields},
		{"seven fields", StartFEN + " 1", InsufficentFields},
		{"doubled space", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR  w KQkq - 0 1", InsufficentFields},
		{"tab separator", "8/8/8/8/8/8/8/8\tw - - 0 1", InsufficentFields},
		{"rank count mismatch", "rnbqkbnr/pppppppp/8/8/8/PPPP/QKBNR/PPPPPPPP w KQkq - 0 1", InvalidPosition},
		{"seven ranks", "8/8/8/8/8/8/8 w - - 0 1", InvalidPosition},
		{"nine ranks", "8/8/8/8/8/8/8/8/8 w - - 0 1", InvalidPosition},
		{"short last rank", "8/8/8/8/8/8/8/7 w - - 0 1", InvalidPosition},
		{"trailing slash", "8/8/8/8/8/8/8/8/ w - - 0 1", InvalidPosition},
		{"digit overflow", "9/8/8/8/8/8/8/8 w - - 0 1", RowOverflow},
		{"piece overflow", "rnbqkbnrp/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", RowOverflow},
		{"run overflow", "7p1/8/8/8/8/8/8/8 w - - 0 1", RowOverflow},
		{"bad token", "rnbqkbnr/ppppxppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", InvalidToken},
		{"zero digit", "08/8/8/8/8/8/8/8 w - - 0 1", InvalidToken},
		{"bad player", "8/8/8/8/8/8/8/8 x - - 0 1", InvalidPlayer},
		{"uppercase player", "8/8/8/8/8/8/8/8 W - - 0 1", InvalidPlayer},
		{"bad castling", "8/8/8/8/8/8/8/8 w KQkx - 0 1", InvalidCastlingStatus},
		{"pawn castling", "8/8/8/8/8/8/8/8 w P - 0 1", InvalidCastlingStatus},
		{"en passant rank 4", "8/8/8/8/8/8/8/8 w - a4 0 1", InvalidEnpassentTarget},
		{"en passant file", "8/8/8/8/8/8/8/8 w - i3 0 1", InvalidEnpassentTarget},
		{"en passant length", "8/8/8/8/8/8/8/8 w - e36 0 1", InvalidEnpassentTarget},
		{"two digit halfmove", "8/8/8/8/8/8/8/8 w - - 10 1", InvalidNumericValue},
		{"negative fullmove", "8/8/8/8/8/8/8/8 w - - 0 -1", InvalidNumericValue},
		{"word fullmove", "8/8/8/8/8/8/8/8 w - - 0 one", InvalidNumericValue},
		{"first error wins", "8/8/8/8/8/8/8/7 x KQkx a4 10 one", InvalidPosition},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			pos, err := Parse(c.fen)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want %v", c.fen, c.want.String())
			}
			if !errors.Is(err, c.want) {
				t.Errorf("Parse(%q) error = %v, want kind %v", c.fen, err, c.want.String())
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error %T is not a *ParseError", err)
			}
			if perr.Kind != c.want {
				t.Errorf("Kind = %v, want %v", perr.Kind.String(), c.want.String())
			}
			if pos != (Position{}) {
				t.Errorf("Partial position returned on error: %+v", pos)
			}
		})
	}
}

func TestParseErrorDetails(t *testing.T) {
	_, err := Parse("rnbqkbnr/ppppxppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected *ParseError, got %T", err)
	}
	if perr.Field != FieldPlacement {
		t.Errorf("Field = %v, want %v", perr.Field, FieldPlacement)
	}
	if perr.Offset != 13 || perr.Char != 'x' {
		t.Errorf("Offset/Char = %d/%q, want 13/'x'", perr.Offset, perr.Char)
	}
	if !strings.Contains(err.Error(), "placement") {
		t.Errorf("Error() = %q, expected it to name the field", err.Error())
	}

	_, err = Parse("8/8/8/8/8/8/8/8 w - - 0 12")
	if !errors.As(err, &perr) {
		t.Fatalf("Expected *ParseError, got %T", err)
	}
	if perr.Field != FieldFullMoveNumber || perr.Input != "12" || perr.Offset != -1 {
		t.Errorf("Unexpected error detail: %+v", perr)
	}
}

func TestPositionText(t *testing.T) {
	var pos Position
	if err := pos.UnmarshalText([]byte(StartFEN)); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	text, err := pos.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}
	if string(text) != StartFEN {
		t.Errorf("MarshalText = %q, want %q", text, StartFEN)
	}

	if err := pos.UnmarshalText([]byte("8/8 w - - 0 1")); !errors.Is(err, InvalidPosition) {
		t.Errorf("UnmarshalText error = %v, want InvalidPosition", err)
	}
	if pos != NewPosition() {
		t.Error("Failed UnmarshalText modified the receiver")
	}
}

func TestKey(t *testing.T) {
	a, _ := Parse("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	b, _ := Parse("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 4 7")
	if a.Key() != b.Key() {
		t.Errorf("Keys differ: %q vs %q", a.Key(), b.Key())
	}
	want := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3"
	if a.Key() != want {
		t.Errorf("Key() = %q, want %q", a.Key(), want)
	}
}

func TestDiagram(t *testing.T) {
	pos := NewPosition()
	lines := strings.Split(strings.TrimRight(pos.Diagram(), "\n"), "\n")
	if len(lines) != 9 {
		t.Fatalf("Expected 9 lines, got %d", len(lines))
	}
	if lines[0] != "8  r n b q k b n r" {
		t.Errorf("Rank 8 = %q", lines[0])
	}
	if lines[4] != "4  . . . . . . . ." {
		t.Errorf("Rank 4 = %q", lines[4])
	}
	if lines[7] != "1  R N B Q K B N R" {
		t.Errorf("Rank 1 = %q", lines[7])
	}
}

func TestParseConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pos, err := Parse(StartFEN)
			if err != nil {
				errs <- err
				return
			}
			if pos.String() != StartFEN {
				errs <- errors.New("round trip mismatch")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestAssignedPosition(t *testing.T) {
	var g Grid
	g.Set(4, 0, WhiteKing)
	g.Set(4, 7, BlackKing)

	pos := Position{Board: g, SideToMove: White, FullMoveNumber: 1}
	want := "4k3/8/8/8/8/8/8/4K3 w - - 0 1"
	if got := pos.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if pos.IsEmpty() {
		t.Error("Assigned position reports empty")
	}

	parsed, err := Parse(want)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed.String() != pos.String() {
		t.Errorf("Parsed %q, assigned %q", parsed, pos)
	}

	pos.SideToMove = Black
	if got := pos.String(); got != "4k3/8/8/8/8/8/8/4K3 b - - 0 1" {
		t.Errorf("Black to move: String() = %q", got)
	}
}

func TestSetSideToMove(t *testing.T) {
	var pos Position
	pos.SetSideToMove(White)
	if pos.IsEmpty() {
		t.Error("SetSideToMove left the record empty")
	}
	want := "8/8/8/8/8/8/8/8 w - - 0 0"
	if got := pos.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	parsed, err := Parse(want)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed != pos {
		t.Errorf("Parse(%q) = %+v, want %+v", want, parsed, pos)
	}
}

func TestPlusSignedCounters(t *testing.T) {
	pos, err := Parse("8/8/8/8/8/8/8/8 w - - +5 +1")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if pos.HalfMoveClock != 5 || pos.FullMoveNumber != 1 {
		t.Errorf("Clocks = %d %d, want 5 1", pos.HalfMoveClock, pos.FullMoveNumber)
	}
	if got := pos.String(); got != "8/8/8/8/8/8/8/8 w - - 5 1" {
		t.Errorf("String() = %q", got)
	}

	for _, counter := range []string{"++5", "+", "+-5", "+10"} {
		_, err := Parse("8/8/8/8/8/8/8/8 w - - " + counter + " 1")
		if !errors.Is(err, InvalidNumericValue) {
			t.Errorf("halfmove %q: error = %v, want InvalidNumericValue", counter, err)
		}
	}
}

func TestEmptyPositionText(t *testing.T) {
	var empty Position
	text, err := empty.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}
	if len(text) != 0 {
		t.Errorf("MarshalText of the empty record = %q, want blank", text)
	}

	restored := NewPosition()
	if err := restored.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if restored != empty || !restored.IsEmpty() {
		t.Errorf("Restored %+v, want the empty record", restored)
	}
}
