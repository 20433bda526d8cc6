package semaphore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/palrtos/errors"
	"github.com/wippyai/palrtos/timebase"
)

func TestCreateCount(t *testing.T) {
	_, err := New(MaxCount + 1)
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)

	s, err := New(MaxCount)
	require.NoError(t, err)
	assert.Equal(t, int32(MaxCount), s.Available())

	s, err = New(0)
	require.NoError(t, err)
	assert.Zero(t, s.Available())
}

func TestExactlyNImmediateWaits(t *testing.T) {
	const n = 3
	s, err := New(n)
	require.NoError(t, err)

	for i := n - 1; i >= 0; i-- {
		start := time.Now()
		left, err := s.Wait(0)
		require.NoError(t, err)
		assert.Equal(t, int32(i), left)
		assert.Less(t, time.Since(start), 20*time.Millisecond)
	}

	left, err := s.Wait(30)
	assert.ErrorIs(t, err, errors.ErrTimeout)
	assert.Zero(t, left)
}

func TestZeroTimeoutTakesAvailableToken(t *testing.T) {
	s, err := New(1)
	require.NoError(t, err)

	left, err := s.Wait(0)
	require.NoError(t, err)
	assert.Zero(t, left)

	_, err = s.Wait(0)
	assert.ErrorIs(t, err, errors.ErrTimeout)

	require.NoError(t, s.Release())
	_, err = s.Wait(0)
	assert.NoError(t, err)
}

func TestWaitBlocksUntilRelease(t *testing.T) {
	s, err := New(0)
	require.NoError(t, err)

	time.AfterFunc(40*time.Millisecond, func() { _ = s.Release() })

	start := time.Now()
	left, err := s.Wait(2000)
	require.NoError(t, err)
	assert.Zero(t, left)
	assert.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond)
}

func TestWaitForever(t *testing.T) {
	s, _ := New(0)
	done := make(chan error, 1)

	go func() {
		_, err := s.Wait(timebase.WaitForever)
		done <- err
	}()

	select {
	case <-done:
		t.Fatal("wait returned before release")
	case <-time.After(30 * time.Millisecond):
	}

	require.NoError(t, s.Release())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("wait not woken by release")
	}
}

func TestTimeoutElapsed(t *testing.T) {
	s, _ := New(0)

	start := time.Now()
	left, err := s.Wait(60)
	assert.ErrorIs(t, err, errors.ErrTimeout)
	assert.Zero(t, left)
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestReleaseAtMaximum(t *testing.T) {
	s, _ := New(MaxCount)
	err := s.Release()
	assert.ErrorIs(t, err, errors.ErrGenericFailure)

	_, err = s.Wait(0)
	require.NoError(t, err)
	assert.NoError(t, s.Release())
}

func TestContextCanceled(t *testing.T) {
	s, _ := New(0)
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)

	_, err := s.WaitContext(ctx, timebase.WaitForever)
	assert.Equal(t, errors.StatusParameterError, errors.StatusOf(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDelete(t *testing.T) {
	s, _ := New(1)

	require.NoError(t, s.Delete())
	assert.ErrorIs(t, s.Delete(), errors.ErrResourceError)

	_, err := s.Wait(0)
	assert.ErrorIs(t, err, errors.ErrParameterError)
	assert.ErrorIs(t, s.Release(), errors.ErrParameterError)
}
