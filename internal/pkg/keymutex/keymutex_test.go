package keymutex

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockSerializesSameKey(t *testing.T) {
	km := New()

	const workers = 32
	const iterations = 100

	counter := 0
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				unlock := km.Lock(7)
				counter++
				unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, workers*iterations, counter)
}

func TestLockIndependentKeys(t *testing.T) {
	km := New()

	// Holding key 1 must not block key 2.
	unlock1 := km.Lock(1)
	defer unlock1()

	done := make(chan struct{})
	go func() {
		unlock2 := km.Lock(2)
		unlock2()
		close(done)
	}()

	<-done
}

func TestLockCleansUpEntries(t *testing.T) {
	km := New()

	var wg sync.WaitGroup
	for key := int64(0); key < 100; key++ {
		wg.Add(1)
		go func(key int64) {
			defer wg.Done()
			unlock := km.Lock(key)
			unlock()
		}(key)
	}
	wg.Wait()

	km.mu.Lock()
	defer km.mu.Unlock()
	assert.Empty(t, km.locks, "released keys must not linger in the map")
}
