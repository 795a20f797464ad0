package uci

import (
	"sync"

	"github.com/chesskit/ucidriver/internal/binary"
	. "github.com/chesskit/ucidriver/internal/helpers"
)

const bestMovePrefix = "bestmove"

// Engine is one live session with a UCI engine process. Searches are
// strictly one at a time: Search holds a per-session lock from the first
// setoption write until the bestmove line for that search has been parsed,
// so result lines can never be matched against the wrong request.
type Engine struct {
	logger Logger
	runner *binary.BinaryRunner

	searchLock sync.Mutex
}

type EngineOption func(*Engine)

func WithLogger(logger Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine spawns the executable at cmdPath and starts reading its
// output. Spawn and pipe failures are returned, not fatal.
func NewEngine(cmdPath string, options ...EngineOption) (*Engine, Error) {
	e := &Engine{}
	for _, o := range options {
		o(e)
	}
	if e.logger == nil {
		e.logger = &DefaultLogger
	}

	var err Error
	e.runner, err = binary.SetupBinaryRunner(
		cmdPath, cmdPath, []string{},
		binary.WithResultPrefix(bestMovePrefix),
		binary.WithLogger(e.logger))
	if !IsNil(err) {
		return nil, err
	}

	return e, NilError
}

// NewGame tells the engine the next search is from a fresh game. The
// engine's acknowledgement, if any, is ignored like every other
// non-bestmove line.
func (e *Engine) NewGame() Error {
	return e.runner.RunAsync("ucinewgame")
}

// Stop asks the engine to cut the current search short. The engine answers
// with its best line so far, which unblocks the pending Search call.
func (e *Engine) Stop() Error {
	return e.runner.RunAsync("stop")
}

// Search applies the job's engine options, sets up its position, starts
// the search, and blocks until the engine reports its chosen move.
//
// If the session is closed, or the engine exits before answering, Search
// returns an error rather than blocking forever. There is no timeout: a
// live engine that never answers blocks the caller.
func (e *Engine) Search(job SearchJob) (SearchResult, Error) {
	e.searchLock.Lock()
	defer e.searchLock.Unlock()

	if e.runner.Closed() {
		return SearchResult{}, Errorf("session closed: %v", e.runner.CmdPath())
	}

	for _, command := range job.Commands() {
		err := e.runner.RunAsync(command)
		if !IsNil(err) {
			return SearchResult{}, err
		}
	}

	line, ok := <-e.runner.Results()
	if !ok {
		return SearchResult{}, Errorf(
			"engine stopped before answering: %v\n%v", e.runner.CmdPath(), e.runner.Flush())
	}

	return ParseSearchResult(line), NilError
}

// Close ends the session: it asks the engine to quit, then kills it. A
// pending Search fails with an explicit error; so does every later call.
func (e *Engine) Close() {
	_ = e.runner.RunAsync("quit")
	e.runner.Close()
}
