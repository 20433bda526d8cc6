package syncutil_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wippyai/palrtos/internal/syncutil"
)

func TestMutexExcludes(t *testing.T) {
	t.Parallel()

	var (
		mu      syncutil.Mutex
		counter int
		wg      sync.WaitGroup
	)

	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mu.Lock()
			counter++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestRWMutexReaders(t *testing.T) {
	t.Parallel()

	var mu syncutil.RWMutex

	mu.RLock()
	done := make(chan struct{})
	go func() {
		mu.RLock()
		mu.RUnlock()
		close(done)
	}()
	<-done
	mu.RUnlock()

	mu.Lock()
	mu.Unlock()
}
