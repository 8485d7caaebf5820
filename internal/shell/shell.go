// Package shell implements the line-oriented chessfen command loop.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"github.com/hailam/chessfen/internal/board"
	"github.com/hailam/chessfen/internal/storage"
	"github.com/hailam/chessfen/internal/suite"
)

// Shell reads commands line by line and reports on the current position.
type Shell struct {
	store    *storage.Storage
	position board.Position

	out io.Writer
}

// New creates a shell over store. A nil store disables the save, load,
// list, delete and stats commands.
func New(store *storage.Storage, out io.Writer) *Shell {
	return &Shell{
		store:    store,
		position: board.NewPosition(),
		out:      out,
	}
}

// Position returns the current position.
func (s *Shell) Position() board.Position {
	return s.position
}

// Run processes commands from in until "quit" or end of input.
func (s *Shell) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		cmd, rest, _ := strings.Cut(line, " ")
		args := strings.Fields(rest)

		switch cmd {
		case "fen":
			// The raw remainder goes to the parser so spacing errors survive.
			s.handleFEN(rest)
		case "startpos":
			s.position = board.NewPosition()
			s.println(s.position.String())
		case "d":
			fmt.Fprint(s.out, s.position.Diagram())
			s.println("Fen: " + s.position.String())
		case "key":
			s.println(s.position.Key())
		case "save":
			s.handleSave(args)
		case "load":
			s.handleLoad(args)
		case "list":
			s.handleList()
		case "delete":
			s.handleDelete(args)
		case "stats":
			s.handleStats()
		case "check":
			s.handleCheck(args)
		case "help":
			s.handleHelp()
		case "quit":
			return nil
		default:
			s.printf("unknown command: %s\n", cmd)
		}
	}

	return scanner.Err()
}

func (s *Shell) println(line string) {
	fmt.Fprintln(s.out, line)
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// handleFEN parses notation and makes it the current position.
func (s *Shell) handleFEN(notation string) {
	pos, err := board.Parse(notation)
	s.recordParse(err)
	if err != nil {
		s.printf("error: %v\n", err)
		return
	}
	s.position = pos
	s.println(pos.String())
}

func (s *Shell) recordParse(err error) {
	if s.store == nil {
		return
	}
	if serr := s.store.RecordParse(err); serr != nil {
		log.Printf("Failed to record parse statistics: %v", serr)
	}
}

func (s *Shell) requireStore() bool {
	if s.store == nil {
		s.println("error: no position store")
		return false
	}
	return true
}

func (s *Shell) handleSave(args []string) {
	if len(args) != 1 {
		s.println("usage: save <name>")
		return
	}
	if !s.requireStore() {
		return
	}

	rec, err := s.store.SavePosition(args[0], s.position)
	if err != nil {
		s.printf("error: %v\n", err)
		return
	}
	s.printf("saved %s (%s)\n", rec.Name, rec.ID)
}

func (s *Shell) handleLoad(args []string) {
	if len(args) != 1 {
		s.println("usage: load <name>")
		return
	}
	if !s.requireStore() {
		return
	}

	rec, err := s.store.LoadPosition(args[0])
	if errors.Is(err, storage.ErrPositionNotFound) {
		s.printf("no position named %s\n", args[0])
		return
	}
	if err != nil {
		s.printf("error: %v\n", err)
		return
	}
	s.position = rec.Position
	s.println(s.position.String())
}

func (s *Shell) handleList() {
	if !s.requireStore() {
		return
	}

	records, err := s.store.ListPositions()
	if err != nil {
		s.printf("error: %v\n", err)
		return
	}
	for _, rec := range records {
		s.printf("%s %s\n", rec.Name, rec.Position)
	}
}

func (s *Shell) handleDelete(args []string) {
	if len(args) != 1 {
		s.println("usage: delete <name>")
		return
	}
	if !s.requireStore() {
		return
	}

	if err := s.store.DeletePosition(args[0]); err != nil {
		if errors.Is(err, storage.ErrPositionNotFound) {
			s.printf("no position named %s\n", args[0])
			return
		}
		s.printf("error: %v\n", err)
		return
	}
	s.printf("deleted %s\n", args[0])
}

func (s *Shell) handleStats() {
	if !s.requireStore() {
		return
	}

	stats, err := s.store.LoadStats()
	if err != nil {
		s.printf("error: %v\n", err)
		return
	}
	s.printf("parsed %d rejected %d (%.1f%%)\n", stats.Parsed, stats.Rejected, stats.RejectRate())
	kinds := make([]string, 0, len(stats.ByKind))
	for kind := range stats.ByKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		s.printf("  %s %d\n", kind, stats.ByKind[kind])
	}
}

func (s *Shell) handleCheck(args []string) {
	if len(args) != 1 {
		s.println("usage: check <file.yaml>")
		return
	}

	corpus, err := suite.Load(args[0])
	if err != nil {
		s.printf("error: %v\n", err)
		return
	}

	results := corpus.Run()
	for _, res := range results {
		s.recordParse(res.Err)
		if !res.Passed() {
			s.println(res.String())
		}
	}
	passed, failed := suite.Summary(results)
	s.printf("passed %d failed %d\n", passed, failed)
}

func (s *Shell) handleHelp() {
	s.println("fen <notation>   parse notation and make it current")
	s.println("startpos         reset to the starting position")
	s.println("d                show the current position")
	s.println("key              print the position without move counters")
	s.println("save <name>      store the current position")
	s.println("load <name>      restore a stored position")
	s.println("list             list stored positions")
	s.println("delete <name>    remove a stored position")
	s.println("stats            show parse statistics")
	s.println("check <file>     run a YAML corpus of FEN cases")
	s.println("quit")
}
