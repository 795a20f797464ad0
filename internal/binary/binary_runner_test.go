package binary

import (
	"fmt"
	"testing"
	"time"

	. "github.com/chesskit/ucidriver/internal/helpers"

	"github.com/stretchr/testify/assert"
)

func TestTeeForwardsMatchingLines(t *testing.T) {
	runner, err := SetupBinaryRunner("tee", "tee", []string{},
		WithResultPrefix("bestmove"),
		WithLogger(&SilentLogger))
	assert.True(t, err.IsNil(), err)
	defer runner.Close()

	for i := 0; i < 10; i++ {
		v := fmt.Sprintf("bestmove e2e4 ponder e7e%d", i)
		err = runner.RunAsync(v)
		assert.True(t, err.IsNil(), err)

		select {
		case line := <-runner.Results():
			assert.Equal(t, v, line)
		case <-time.After(time.Second):
			t.Fatal("no result line forwarded")
		}
	}
}

func TestTeeDiscardsOtherLines(t *testing.T) {
	runner, err := SetupBinaryRunner("tee", "tee", []string{},
		WithResultPrefix("bestmove"),
		WithLogger(&SilentLogger))
	assert.True(t, err.IsNil(), err)
	defer runner.Close()

	err = runner.RunAsync("info depth 12 score cp 34")
	assert.True(t, err.IsNil(), err)
	err = runner.RunAsync("bestmove d2d4")
	assert.True(t, err.IsNil(), err)

	// only the bestmove line comes through
	select {
	case line := <-runner.Results():
		assert.Equal(t, "bestmove d2d4", line)
	case <-time.After(time.Second):
		t.Fatal("no result line forwarded")
	}
}

func TestResultsClosedOnExit(t *testing.T) {
	runner, err := SetupBinaryRunner("true", "true", []string{},
		WithResultPrefix("bestmove"),
		WithLogger(&SilentLogger))
	assert.True(t, err.IsNil(), err)
	defer runner.Close()

	select {
	case _, ok := <-runner.Results():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("result channel never closed")
	}
}

func TestResultsClosedOnClose(t *testing.T) {
	runner, err := SetupBinaryRunner("cat", "cat", []string{},
		WithResultPrefix("bestmove"),
		WithLogger(&SilentLogger))
	assert.True(t, err.IsNil(), err)

	runner.Close()
	assert.True(t, runner.Closed())

	select {
	case _, ok := <-runner.Results():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("result channel never closed")
	}

	err = runner.RunAsync("bestmove e2e4")
	assert.False(t, err.IsNil())

	// closing twice is fine
	runner.Close()
}

func TestSpawnFailure(t *testing.T) {
	_, err := SetupBinaryRunner("./does-not-exist", "missing", []string{},
		WithLogger(&SilentLogger))
	assert.False(t, err.IsNil())
}

func TestFlushRecordsTraffic(t *testing.T) {
	runner, err := SetupBinaryRunner("tee", "tee", []string{},
		WithResultPrefix("bestmove"),
		WithLogger(&SilentLogger))
	assert.True(t, err.IsNil(), err)
	defer runner.Close()

	err = runner.RunAsync("bestmove g1f3")
	assert.True(t, err.IsNil(), err)

	select {
	case <-runner.Results():
	case <-time.After(time.Second):
		t.Fatal("no result line forwarded")
	}

	flushed := runner.Flush()
	assert.Contains(t, flushed, "in:  bestmove g1f3")
	assert.Contains(t, flushed, "out: bestmove g1f3")
}
