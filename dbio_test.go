package ldbc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPureNeverTouchesConnection(t *testing.T) {
	v, err := Pure(42).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestFlatMapSequencesAndShortCircuitsOnFailure(t *testing.T) {
	boom := errors.New("boom")
	var ranSecond bool

	fa := RaiseError[int](boom)
	chained := FlatMap(fa, func(int) DBIO[int] {
		ranSecond = true
		return Pure(1)
	})

	_, err := chained.Run(context.Background(), nil)
	require.ErrorIs(t, err, boom)
	assert.False(t, ranSecond, "FlatMap must not run the continuation after a failure")
}

func TestMapDBIOTransformsResult(t *testing.T) {
	doubled := MapDBIO(Pure(21), func(n int) int { return n * 2 })
	v, err := doubled.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestHandleErrorWithRecoversFromFailure(t *testing.T) {
	boom := errors.New("boom")
	recovered := HandleErrorWith(RaiseError[string](boom), func(err error) DBIO[string] {
		return Pure("recovered: " + err.Error())
	})

	v, err := recovered.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "recovered: boom", v)
}

func TestHandleErrorWithPassesThroughSuccess(t *testing.T) {
	var called bool
	fa := HandleErrorWith(Pure(1), func(error) DBIO[int] {
		called = true
		return Pure(-1)
	})

	v, err := fa.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.False(t, called)
}

func TestOnErrorRunsFinalizerAndPreservesOriginalError(t *testing.T) {
	boom := errors.New("boom")
	var finalizerErr error

	fa := OnError(RaiseError[int](boom), func(err error) DBIO[struct{}] {
		finalizerErr = err
		return Pure(struct{}{})
	})

	_, err := fa.Run(context.Background(), nil)
	require.ErrorIs(t, err, boom)
	assert.ErrorIs(t, finalizerErr, boom)
}

func TestOnErrorSkipsFinalizerOnSuccess(t *testing.T) {
	var called bool
	fa := OnError(Pure(7), func(error) DBIO[struct{}] {
		called = true
		return Pure(struct{}{})
	})

	v, err := fa.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.False(t, called)
}

func TestAttemptMaterializesFailureAsResult(t *testing.T) {
	boom := errors.New("boom")
	res, err := Attempt(RaiseError[int](boom)).Run(context.Background(), nil)
	require.NoError(t, err, "Attempt itself never fails")
	assert.ErrorIs(t, res.Err, boom)
}

func TestAttemptMaterializesSuccessAsResult(t *testing.T) {
	res, err := Attempt(Pure(5)).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.NoError(t, res.Err)
	assert.Equal(t, 5, res.Value)
}

func TestSequenceDBIOCollectsInOrder(t *testing.T) {
	ops := []DBIO[int]{Pure(1), Pure(2), Pure(3)}
	got, err := SequenceDBIO(ops).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestSequenceDBIOStopsAtFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	var ranThird bool
	ops := []DBIO[int]{
		Pure(1),
		RaiseError[int](boom),
		FlatMap(Pure(0), func(int) DBIO[int] { ranThird = true; return Pure(3) }),
	}

	_, err := SequenceDBIO(ops).Run(context.Background(), nil)
	require.ErrorIs(t, err, boom)
	assert.False(t, ranThird)
}

func TestSleepCompletesAfterDuration(t *testing.T) {
	_, err := Sleep(time.Millisecond).Run(context.Background(), nil)
	require.NoError(t, err)
}

func TestSleepObservesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Sleep(time.Hour).Run(ctx, nil)
	require.Error(t, err)
	var cancelled *CancellationObserved
	assert.ErrorAs(t, err, &cancelled)
}
