package uci

import (
	"fmt"
	"strings"

	. "github.com/chesskit/ucidriver/internal/helpers"
)

// Position describes how the engine's internal board is set up before a
// search: from the standard starting position or from a FEN string, each
// optionally followed by a list of UCI moves.
type Position struct {
	fen   Optional[string]
	moves Optional[string]
}

func Startpos() Position {
	return Position{}
}

func StartposAndMoves(moves ...string) Position {
	return Position{moves: Some(strings.Join(moves, " "))}
}

func Fen(fen string) Position {
	return Position{fen: Some(fen)}
}

func FenAndMoves(fen string, moves ...string) Position {
	return Position{fen: Some(fen), moves: Some(strings.Join(moves, " "))}
}

func (p Position) Command() string {
	command := "position startpos"
	if p.fen.HasValue() {
		command = "position fen " + p.fen.Value()
	}
	if p.moves.HasValue() {
		command += " moves " + p.moves.Value()
	}
	return command
}

// TimeControl holds clock state in milliseconds for both sides.
type TimeControl struct {
	WhiteTime      int
	WhiteIncrement int
	BlackTime      int
	BlackIncrement int
}

// DefaultTimeControl is one minute per side, no increment.
func DefaultTimeControl() TimeControl {
	return TimeControl{
		WhiteTime:      60000,
		WhiteIncrement: 0,
		BlackTime:      60000,
		BlackIncrement: 0,
	}
}

// SearchJob describes one search: engine options to apply, the position to
// set up, and the limits for the go command. Option keys are unique and
// unordered; setting a key twice keeps the last value.
type SearchJob struct {
	engineOptions map[string]string
	position      Position
	goOptions     map[string]string
}

func NewSearchJob() SearchJob {
	return SearchJob{
		engineOptions: map[string]string{},
		position:      Startpos(),
		goOptions:     map[string]string{},
	}
}

func (j SearchJob) Pos(position Position) SearchJob {
	j.position = position
	return j
}

func (j SearchJob) EngineOption(key string, value string) SearchJob {
	j.engineOptions[key] = value
	return j
}

func (j SearchJob) GoOption(key string, value string) SearchJob {
	j.goOptions[key] = value
	return j
}

// Tc overwrites the wtime/winc/btime/binc go options with the given time
// control. The last of Tc / GoOption wins for those keys.
func (j SearchJob) Tc(tc TimeControl) SearchJob {
	j.goOptions["wtime"] = fmt.Sprint(tc.WhiteTime)
	j.goOptions["winc"] = fmt.Sprint(tc.WhiteIncrement)
	j.goOptions["btime"] = fmt.Sprint(tc.BlackTime)
	j.goOptions["binc"] = fmt.Sprint(tc.BlackIncrement)
	return j
}

func (j SearchJob) GoCommand() string {
	command := "go"
	for key, value := range j.goOptions {
		command += fmt.Sprintf(" %v %v", key, value)
	}
	return command
}

// Commands renders the full command sequence for this job: one setoption
// per engine option, the position command, then the go command. The
// relative order of options is unspecified.
func (j SearchJob) Commands() []string {
	commands := []string{}
	for key, value := range j.engineOptions {
		commands = append(commands, fmt.Sprintf("setoption name %v value %v", key, value))
	}
	commands = append(commands, j.position.Command())
	commands = append(commands, j.GoCommand())
	return commands
}

// SearchResult is the engine's answer to one search. Both moves are opaque
// UCI tokens; nothing here checks legality.
type SearchResult struct {
	BestMove Optional[string]
	Ponder   Optional[string]
}

// ParseSearchResult pulls the best move and ponder move out of a line of
// the form `bestmove <move> [ponder <move>]`.
func ParseSearchResult(line string) SearchResult {
	result := SearchResult{}

	parts := strings.Split(line, " ")
	if len(parts) > 1 {
		result.BestMove = Some(parts[1])
	}
	if len(parts) > 3 {
		result.Ponder = Some(parts[3])
	}

	return result
}
