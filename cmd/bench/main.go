package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	. "github.com/chesskit/ucidriver/internal/helpers"
	"github.com/chesskit/ucidriver/internal/uci"
	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
)

// a handful of middlegame and endgame positions, varied enough to keep the
// engine honest
var benchFens = []string{
	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
	"rn1qk2r/ppp3pp/3b1n2/3ppb2/8/2NPBNP1/PPP2PBP/R2QK2R b KQkq - 15 8",
	"5rk1/1ppb3p/p1pb4/8/3P1p1r/2P3NP/PP1BQ1P1/5RK1 b - - 0 1",
	"2kr3r/p1p2ppp/2n1b3/2bqp3/Pp1p4/1P1P1N1P/2PBBPP1/R2Q1RK1 w - - 24 13",
	"8/2k5/3p4/p2P1p2/P2P1P2/8/8/4K3 w - - 0 1",
	"8/8/4kpp1/3p1b2/p6P/2B5/6P1/6K1 b - - 0 1",
}

func main() {
	args := os.Args[1:]
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: bench <engine-path> [depth=N] [movetime=N]")
		os.Exit(1)
	}
	enginePath := args[0]

	depth := 10
	movetime := 0
	for _, arg := range args[1:] {
		if value, found := strings.CutPrefix(arg, "depth="); found {
			if parsed, err := strconv.Atoi(value); err == nil {
				depth = parsed
			}
		}
		if value, found := strings.CutPrefix(arg, "movetime="); found {
			if parsed, err := strconv.Atoi(value); err == nil {
				movetime = parsed
			}
		}
	}

	engine, err := uci.NewEngine(enginePath, uci.WithLogger(&SilentLogger))
	if !IsNil(err) {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer engine.Close()

	bar := progressbar.Default(int64(len(benchFens)), "bench")

	start := time.Now()
	for _, fen := range benchFens {
		job := uci.NewSearchJob().Pos(uci.Fen(fen))
		if movetime > 0 {
			job = job.GoOption("movetime", strconv.Itoa(movetime))
		} else {
			job = job.GoOption("depth", strconv.Itoa(depth))
		}

		result, err := engine.Search(job)
		if !IsNil(err) {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}

		bar.Describe(fmt.Sprintf("bench (%v)", result.BestMove.ValueOr("?")))
		_ = bar.Add(1)
	}
	_ = bar.Close()

	elapsed := time.Since(start)
	fmt.Printf("%v positions in %v ms (%v ms/position)\n",
		len(benchFens),
		humanize.Comma(elapsed.Milliseconds()),
		humanize.Comma(elapsed.Milliseconds()/int64(len(benchFens))))
}
