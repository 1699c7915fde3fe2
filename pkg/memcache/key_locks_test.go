package mem

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyLocksSerializeSameKey(t *testing.T) {
	locks := NewKeyLocks()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("invoice:1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestKeyLocksIndependentKeys(t *testing.T) {
	locks := NewKeyLocks()

	unlockA := locks.Lock("a")
	// A held lock on "a" must not block "b".
	done := make(chan struct{})
	go func() {
		unlockB := locks.Lock("b")
		unlockB()
		close(done)
	}()
	<-done
	unlockA()
}
