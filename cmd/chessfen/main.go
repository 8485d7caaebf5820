package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hailam/chessfen/internal/shell"
	"github.com/hailam/chessfen/internal/storage"
	"github.com/hailam/chessfen/internal/suite"
)

var (
	dbDir     = flag.String("db", "", "position store directory (default: $XDG_DATA_HOME/chessfen/positions)")
	inMemory  = flag.Bool("memory", false, "keep the position store in memory")
	suitePath = flag.String("suite", "", "check a YAML corpus of FEN cases and exit")
)

func main() {
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("chessfen: ")

	if *suitePath != "" {
		os.Exit(runSuite(*suitePath))
	}

	store, err := openStore()
	if err != nil {
		log.Fatal("could not open position store: ", err)
	}
	defer store.Close()

	if err := shell.New(store, os.Stdout).Run(os.Stdin); err != nil {
		log.Printf("input error: %v", err)
	}
}

// openStore picks the store location: -memory, then -db, then the
// CHESSFEN_DB environment variable, then storage.DefaultDir.
func openStore() (*storage.Storage, error) {
	if *inMemory {
		return storage.Open("")
	}

	dir := *dbDir
	if dir == "" {
		dir = os.Getenv("CHESSFEN_DB")
	}
	if dir == "" {
		return storage.NewStorage()
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	log.Printf("Position store: %s", dir)
	return storage.Open(dir)
}

// runSuite checks a corpus and returns the process exit code.
func runSuite(path string) int {
	corpus, err := suite.Load(path)
	if err != nil {
		log.Printf("%v", err)
		return 2
	}

	results := corpus.Run()
	for _, res := range results {
		fmt.Println(res)
	}

	passed, failed := suite.Summary(results)
	fmt.Printf("passed %d failed %d\n", passed, failed)
	if failed > 0 {
		return 1
	}
	return 0
}
