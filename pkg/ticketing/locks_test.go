package ticketing

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyedMutex(t *testing.T) {
	k := newKeyedMutex()

	var a, b int
	counters := map[string]*int{"a": &a, "b": &b}
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		for _, key := range []string{"a", "b"} {
			wg.Add(1)
			go func(key string) {
				defer wg.Done()
				unlock := k.Lock(key)
				defer unlock()

				v := *counters[key]
				*counters[key] = v + 1
			}(key)
		}
	}
	wg.Wait()

	require.Equal(t, 100, a)
	require.Equal(t, 100, b)
	require.Empty(t, k.locks)
}
