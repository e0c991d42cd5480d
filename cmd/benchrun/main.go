package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
)

type perftCase struct {
	label string
	fen   string
	depth int
}

var perftCases = []perftCase{
	{"Initial", "", 3},
	{"Initial", "", 4},
	{"Initial", "", 5},
	{"Kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 3},
	{"Position3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 4},
}

var searchFENs = []string{
	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	"r1bqk1nr/pppp1ppp/2n5/2b1p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4",
	"r4rk1/1pp1qppp/p1np1n2/2b1p3/2B1P3/2NP1N2/PPP1QPPP/R4RK1 w - - 0 10",
}

// run executes a command, prints its combined output and returns the exit code.
func run(name string, args ...string) int {
	cmd := exec.Command(name, args...)
	cmd.Env = os.Environ()
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	fmt.Print(out.String())
	if err == nil {
		return 0
	}
	if ee, ok := err.(*exec.ExitError); ok {
		return ee.ExitCode()
	}
	fmt.Fprintf(os.Stderr, "error running %s: %v\n", name, err)
	return 1
}

// Usage: go run ./cmd/benchrun
//
// Runs the bench/ package (perft, move generation, keys, evaluation and
// fixed-depth search), then perft and search throughput through the tools.
func main() {
	fmt.Println("Columns: BENCHMARK  N  ns/op  B/op  allocs/op")
	if code := run("go", "test", "./bench", "-run", "^$", "-bench", ".", "-benchmem", "-benchtime=1s"); code != 0 {
		os.Exit(code)
	}

	fmt.Println("\nPerft:")
	fmt.Println("TEST \t\tDepth \t\tNodes \t\tTime \tNPS")
	for _, c := range perftCases {
		args := []string{"run", "./cmd/perft", "-depth", fmt.Sprint(c.depth), "-label", c.label}
		if c.fen != "" {
			args = append(args, "-fen", c.fen)
		}
		run("go", args...)
	}

	fmt.Println("\nSearch (depth 4):")
	for _, fen := range searchFENs {
		run("go", "run", "./cmd/searchbench", "-fen", fen, "-depth", "4", "-time", "1m", "-log", "warn")
	}
}
