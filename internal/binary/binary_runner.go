package binary

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	. "github.com/chesskit/ucidriver/internal/helpers"
)

// BinaryRunner owns one child process: it holds the only write handle to
// the child's stdin and runs two background goroutines, a scanner that
// reads stdout line-by-line and a watcher that waits for process exit.
// Lines matching the configured result prefix are forwarded into the
// result channel; everything else is logged and discarded. The result
// channel is closed once stdout reaches EOF or the runner is closed.
type BinaryRunner struct {
	cmdPath string
	cmdName string
	cmd     *exec.Cmd

	stdin io.WriteCloser

	resultPrefix string
	results      chan string

	done      chan struct{}
	closeOnce sync.Once

	recordLock sync.Mutex
	record     []string

	Logger Logger
}

type BinaryRunnerOption func(*BinaryRunner)

func WithLogger(logger Logger) BinaryRunnerOption {
	return func(u *BinaryRunner) {
		u.Logger = logger
	}
}

// WithResultPrefix forwards stdout lines starting with the given prefix
// into the result channel. Without it, every line is discarded after
// logging.
func WithResultPrefix(prefix string) BinaryRunnerOption {
	return func(u *BinaryRunner) {
		u.resultPrefix = prefix
	}
}

func (u *BinaryRunner) CmdPath() string {
	return u.cmdPath
}

func (u *BinaryRunner) CmdName() string {
	return u.cmdName
}

func (u *BinaryRunner) appendRecord(line string) {
	u.recordLock.Lock()
	defer u.recordLock.Unlock()
	u.record = append(u.record, line)
}

func (u *BinaryRunner) flush(indent string) string {
	u.recordLock.Lock()
	defer u.recordLock.Unlock()
	return Indent(strings.Join(u.record, "\n"), indent)
}

// Flush returns the recorded conversation with the child, for diagnostics.
func (u *BinaryRunner) Flush() string {
	return "> " + u.flush("> ")
}

func wrapError(u *BinaryRunner, err error) Error {
	if !IsNil(err) {
		return Wrap(fmt.Errorf("%w\n.  %v\n", err, u.flush(".  ")))
	}
	return NilError
}

func SetupBinaryRunner(cmdPath string, cmdName string, args []string, options ...BinaryRunnerOption) (*BinaryRunner, Error) {
	u := &BinaryRunner{
		cmdPath: cmdPath,
		cmdName: cmdName,
		results: make(chan string, 8),
		done:    make(chan struct{}),
	}

	for _, option := range options {
		option(u)
	}

	if u.Logger == nil {
		u.Logger = &DefaultLogger
	}

	u.Logger.Println(cmdName, "starting:", cmdPath, args)
	u.cmd = exec.Command(cmdPath, args...)

	var err error
	u.stdin, err = u.cmd.StdinPipe()
	if !IsNil(err) {
		return u, wrapError(u, err)
	}

	var stdout io.Reader
	stdout, err = u.cmd.StdoutPipe()
	if !IsNil(err) {
		return u, wrapError(u, err)
	}

	err = u.cmd.Start()
	if !IsNil(err) {
		return u, wrapError(u, err)
	}

	scannerDone := make(chan struct{})

	go func() {
		defer close(scannerDone)
		defer close(u.results)

		stdoutScanner := bufio.NewScanner(bufio.NewReader(stdout))
		for stdoutScanner.Scan() {
			line := stdoutScanner.Text()
			u.Logger.Println(u.cmdName, ">", Ellipses(line, 140))
			u.appendRecord("out: " + line)

			if u.resultPrefix != "" && strings.HasPrefix(line, u.resultPrefix) {
				select {
				case u.results <- line:
				case <-u.done:
					return
				}
			}
		}
		if err := stdoutScanner.Err(); err != nil {
			u.Logger.Println(u.cmdName, "read error:", err)
		} else {
			u.Logger.Println(u.cmdName, "stdout closed")
		}
	}()

	go func() {
		<-scannerDone
		err := u.cmd.Wait()
		if err != nil {
			u.Logger.Println(u.cmdName, "exited:", err)
		} else {
			u.Logger.Println(u.cmdName, "exited:", u.cmd.ProcessState)
		}
	}()

	return u, NilError
}

// RunAsync writes one newline-terminated command to the child's stdin.
func (u *BinaryRunner) RunAsync(input string) Error {
	if u.cmd == nil {
		return wrapError(u, Errorf("cmd not setup: %v", u.cmdPath))
	}

	select {
	case <-u.done:
		return wrapError(u, Errorf("cmd closed: %v", u.cmdPath))
	default:
	}

	if u.cmd.ProcessState != nil && u.cmd.ProcessState.Exited() {
		return wrapError(u, Errorf("cmd exited: %v", u.cmdPath))
	}

	u.Logger.Println(u.cmdName, "<", input)
	u.appendRecord("in:  " + strings.TrimSpace(input))

	_, err := u.stdin.Write([]byte(input + "\n"))
	if !IsNil(err) {
		return wrapError(u, err)
	}

	return NilError
}

// Results is the hand-off channel of forwarded stdout lines. It is closed
// when the child's stdout ends or the runner is closed.
func (u *BinaryRunner) Results() <-chan string {
	return u.results
}

func (u *BinaryRunner) Closed() bool {
	select {
	case <-u.done:
		return true
	default:
		return false
	}
}

// Close kills the child process. It is safe to call more than once; the
// scanner goroutine notices the resulting EOF and closes the result
// channel, unblocking anyone waiting on it.
func (u *BinaryRunner) Close() {
	u.closeOnce.Do(func() {
		close(u.done)
		if u.stdin != nil {
			_ = u.stdin.Close()
		}
		if u.cmd != nil && u.cmd.Process != nil {
			_ = u.cmd.Process.Kill()
		}
	})
}
