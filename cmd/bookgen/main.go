package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ggoldstein1-star/chess-engine/board"
	"github.com/ggoldstein1-star/chess-engine/engine"
)

// Usage: go run ./cmd/bookgen -in lines.txt -out book.json
//
// Each input line is one opening in SAN, e.g. "1. e4 c5 2. Nf3 d6".
// Lines starting with '#' are skipped.
func main() {
	in := flag.String("in", "", "file with one SAN move sequence per line (default stdin)")
	out := flag.String("out", "book.json", "book file to write; an existing book is extended")
	plies := flag.Int("plies", 16, "maximum plies taken from each line")
	seed := flag.Bool("seed", true, "start from the built-in book when -out does not exist")
	logLevel := flag.String("log", "info", "log level")
	flag.Parse()

	log := engine.NewConsoleLogger(os.Stderr, engine.ParseLevel(*logLevel))

	book := engine.NewOpeningBook()
	if *seed {
		book = engine.DefaultOpeningBook()
	}
	if err := book.Load(*out); err != nil {
		log.Fatal().Err(err).Str("path", *out).Msg("could not load existing book")
	}

	var r io.Reader = os.Stdin
	if *in != "" {
		f, err := os.Open(*in)
		if err != nil {
			log.Fatal().Err(err).Msg("could not open input")
		}
		defer f.Close()
		r = f
	}

	lines, added, err := addLines(book, r, *plies, log)
	if err != nil {
		log.Fatal().Err(err).Msg("could not read input")
	}
	if err := book.Save(*out); err != nil {
		log.Fatal().Err(err).Msg("could not save book")
	}
	fmt.Printf("bookgen: lines=%d moves added=%d positions=%d -> %s\n", lines, added, book.Len(), *out)
}

// addLines replays every SAN line from r and records each position's move.
// Lines with an illegal move are logged and kept up to the bad move.
func addLines(book *engine.OpeningBook, r io.Reader, plies int, log zerolog.Logger) (lines, added int, err error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines++
		pos := board.New()
		for _, tok := range strings.Fields(text) {
			if pos.Ply() >= plies {
				break
			}
			san, ok := board.SANToken(tok)
			if !ok {
				continue
			}
			m, err := pos.ParseSAN(san)
			if err != nil {
				log.Warn().Err(err).Int("line", lines).Str("move", san).Msg("skipping rest of line")
				break
			}
			before := len(book.Moves(pos.Key()))
			book.Add(pos.Key(), board.UCI(m))
			if len(book.Moves(pos.Key())) > before {
				added++
			}
			pos.Apply(m)
		}
	}
	return lines, added, sc.Err()
}
