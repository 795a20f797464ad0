package main

import (
	"fmt"
	"os"
	"strings"

	. "github.com/chesskit/ucidriver/internal/helpers"
	"github.com/chesskit/ucidriver/internal/uci"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/profile"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: bestmove <engine-path> [fen=...] [moves=...] [depth=N] [movetime=N] [tc] [option.Name=Value] [profile] [verbose]")
	os.Exit(1)
}

func jobFromArgs(args []string) (uci.SearchJob, Error) {
	job := uci.NewSearchJob()

	fen := ""
	moves := []string{}

	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found {
			if arg == "tc" {
				job = job.Tc(uci.DefaultTimeControl())
				continue
			}
			return job, Errorf("can't parse arg: %v", arg)
		}

		switch {
		case key == "fen":
			fen = value
		case key == "moves":
			moves = strings.Fields(value)
		case strings.HasPrefix(key, "option."):
			job = job.EngineOption(strings.TrimPrefix(key, "option."), value)
		default:
			job = job.GoOption(key, value)
		}
	}

	switch {
	case fen == "" && len(moves) == 0:
		job = job.Pos(uci.Startpos())
	case fen == "":
		job = job.Pos(uci.StartposAndMoves(moves...))
	case len(moves) == 0:
		job = job.Pos(uci.Fen(fen))
	default:
		job = job.Pos(uci.FenAndMoves(fen, moves...))
	}

	return job, NilError
}

func main() {
	args := os.Args[1:]
	if len(args) < 1 {
		usage()
	}

	enginePath := args[0]
	args = args[1:]

	if Contains(args, "profile") {
		p := profile.Start(profile.ProfilePath("."))
		defer p.Stop()
	}
	verbose := Contains(args, "verbose")
	args = FilterSlice(args, func(arg string) bool {
		return arg != "profile" && arg != "verbose"
	})

	job, err := jobFromArgs(args)
	if !IsNil(err) {
		fmt.Fprintln(os.Stderr, "error:", err)
		usage()
	}

	logger := Logger(&SilentLogger)
	if verbose {
		logger = &DefaultLogger
	}

	engine, err := uci.NewEngine(enginePath, uci.WithLogger(logger))
	if !IsNil(err) {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer engine.Close()

	if verbose {
		fmt.Fprint(os.Stderr, spew.Sdump(job))
	}

	result, err := engine.Search(job)
	if !IsNil(err) {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	if verbose {
		fmt.Fprint(os.Stderr, spew.Sdump(result))
	}

	if result.BestMove.IsEmpty() {
		fmt.Fprintln(os.Stderr, "no move found")
		os.Exit(1)
	}

	fmt.Println(result.BestMove.Value())
	if result.Ponder.HasValue() {
		fmt.Println("ponder", result.Ponder.Value())
	}
}
