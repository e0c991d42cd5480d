package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ggoldstein1-star/chess-engine/board"
	"github.com/ggoldstein1-star/chess-engine/engine"
)

type result struct {
	fen     string
	run     int
	move    string
	nodes   uint64
	elapsed time.Duration
}

func main() {
	depthFlag := flag.Int("depth", engine.DefaultConfig().MaxDepth, "maximum search depth in plies")
	timeFlag := flag.Duration("time", 0, "time budget per search (0 = engine default)")
	clockFlag := flag.Duration("clock", 0, "derive the budget from a game clock instead of -time")
	incFlag := flag.Duration("inc", 0, "increment per move, used with -clock")
	repeatFlag := flag.Int("repeat", 1, "number of searches per position")
	fenFlag := flag.String("fen", "", "FEN to search (empty = startpos)")
	fensFlag := flag.String("fens", "", "file with one FEN per line")
	parallelFlag := flag.Int("parallel", 1, "positions searched concurrently, one engine each")
	bookFlag := flag.Bool("book", false, "allow opening book moves")
	bookFile := flag.String("bookfile", "", "JSON opening book replacing the built-in one (implies -book)")
	evalFlag := flag.Bool("eval", false, "print the static evaluation breakdown and exit")
	logLevel := flag.String("log", "info", "log level (debug shows every completed depth)")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	flag.Parse()

	logger := engine.NewConsoleLogger(os.Stderr, engine.ParseLevel(*logLevel))

	cfg := engine.DefaultConfig()
	if err := cfg.SetOption("MaxDepth", fmt.Sprint(*depthFlag)); err != nil {
		logger.Fatal().Err(err).Msg("bad depth")
	}
	cfg.OwnBook = *bookFlag || *bookFile != ""

	budget := *timeFlag
	if *clockFlag > 0 {
		budget = engine.ClockBudget(*clockFlag, *incFlag)
	}

	fens, err := loadFENs(*fenFlag, *fensFlag)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not read positions")
	}

	if *evalFlag {
		for _, fen := range fens {
			pos, err := board.FromFEN(fen)
			if err != nil {
				logger.Fatal().Err(err).Msg("bad FEN")
			}
			fmt.Printf("%s\n%s", fen, engine.Breakdown(pos))
		}
		return
	}

	if *cpuProfile != "" {
		cpuFile, err := os.Create(*cpuProfile)
		if err != nil {
			logger.Fatal().Err(err).Msg("could not create CPU profile")
		}
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			logger.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer func() {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}()
	}

	fmt.Printf("searchbench: positions=%d depth=%d budget=%v repeat=%d parallel=%d\n",
		len(fens), cfg.MaxDepth, budget, *repeatFlag, *parallelFlag)

	startAll := time.Now()
	results, err := runSearches(context.Background(), fens, cfg, *bookFile, budget, *repeatFlag, *parallelFlag, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("search failed")
	}

	var totalNodes uint64
	for _, r := range results {
		totalNodes += r.nodes
		fmt.Printf("%s [%d]: bestmove %s  nodes=%d  time=%v\n", r.fen, r.run, r.move, r.nodes, r.elapsed)
	}
	totalElapsed := time.Since(startAll)
	fmt.Printf("total nodes: %d  total time: %v  nps: %.0f\n",
		totalNodes, totalElapsed, float64(totalNodes)/totalElapsed.Seconds())

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			logger.Fatal().Err(err).Msg("could not create memory profile")
		}
		defer f.Close()

		runtime.GC() // get up-to-date heap info
		if err := pprof.WriteHeapProfile(f); err != nil {
			logger.Fatal().Err(err).Msg("could not write memory profile")
		}
	}
}

// loadFENs collects positions from -fen and -fens, defaulting to the start position.
func loadFENs(single, path string) ([]string, error) {
	var fens []string
	if single != "" {
		fens = append(fens, single)
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			fens = append(fens, line)
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
	}
	if len(fens) == 0 {
		fens = append(fens, board.Startpos)
	}
	return fens, nil
}

type job struct {
	fen string
	run int
}

// runSearches fans the positions out to parallel workers, each owning one
// engine, and collects the results in input order.
func runSearches(ctx context.Context, fens []string, cfg engine.SearchConfig, bookFile string, budget time.Duration,
	repeat, parallel int, logger zerolog.Logger) ([]result, error) {
	g, ctx := errgroup.WithContext(ctx)

	var jobs = make(chan job)
	var done = make(chan result)

	g.Go(func() error {
		defer close(jobs)
		for _, fen := range fens {
			for i := 1; i <= repeat; i++ {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case jobs <- job{fen: fen, run: i}:
				}
			}
		}
		return nil
	})

	var wg = &sync.WaitGroup{}
	for i := 0; i < max(parallel, 1); i++ {
		wg.Add(1)
		workerID := i
		g.Go(func() error {
			defer wg.Done()
			return searchWorker(ctx, cfg, bookFile, budget, jobs, done, logger.With().Int("worker_id", workerID).Logger())
		})
	}

	g.Go(func() error {
		wg.Wait()
		close(done)
		return nil
	})

	var results []result
	for r := range done {
		results = append(results, r)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].fen != results[j].fen {
			return indexOf(fens, results[i].fen) < indexOf(fens, results[j].fen)
		}
		return results[i].run < results[j].run
	})
	return results, nil
}

func searchWorker(ctx context.Context, cfg engine.SearchConfig, bookFile string, budget time.Duration,
	jobs <-chan job, done chan<- result, log zerolog.Logger) error {
	e := engine.NewEngine(engine.WithConfig(cfg), engine.WithLogger(log))
	log = log.With().Str("engine_id", e.ID()).Logger()
	if bookFile != "" {
		if err := e.Book().Load(bookFile); err != nil {
			return err
		}
		log.Debug().Str("path", bookFile).Int("positions", e.Book().Len()).Msg("book loaded")
	}
	for j := range jobs {
		pos, err := board.FromFEN(j.fen)
		if err != nil {
			return err
		}
		e.NewGame()
		start := time.Now()
		m, ok, err := e.FindBestMove(pos, budget)
		if err != nil {
			return fmt.Errorf("%s: %w", j.fen, err)
		}
		move := "(none)"
		if ok {
			move = board.UCI(m)
		}
		r := result{fen: j.fen, run: j.run, move: move, nodes: e.Nodes(), elapsed: time.Since(start)}
		log.Debug().Str("fen", j.fen).Str("move", move).Uint64("nodes", r.nodes).Msg("search done")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case done <- r:
		}
	}
	return nil
}

func indexOf(fens []string, fen string) int {
	for i, f := range fens {
		if f == fen {
			return i
		}
	}
	return -1
}
