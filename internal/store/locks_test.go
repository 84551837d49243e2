package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocks_SerializesSameCollection(t *testing.T) {
	// given
	locks := NewLocks()
	counter := 0
	var wg sync.WaitGroup

	// when
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("products", "sales")
			defer unlock()
			v := counter
			counter = v + 1
		}()
	}
	wg.Wait()

	// then
	assert.Equal(t, 50, counter)
}

func TestLocks_OverlappingSetsDoNotDeadlock(t *testing.T) {
	locks := NewLocks()
	var wg sync.WaitGroup

	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var unlock func()
			if i%2 == 0 {
				unlock = locks.Lock("sales", "products")
			} else {
				unlock = locks.Lock("products", "sales", "products")
			}
			unlock()
			unlock() // second call is a no-op
		}()
	}
	wg.Wait()
}
