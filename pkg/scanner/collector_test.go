package scanner

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollectDrainsAscending(t *testing.T) {
	ports := []uint16{8080, 22, 443, 1, 65534, 80, 3306}
	shuffled := append([]uint16(nil), ports...)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	ch := make(chan uint16, len(shuffled))
	for _, p := range shuffled {
		ch <- p
	}
	close(ch)

	set := Collect(ch)
	require.Equal(t, len(ports), set.Len())
	require.Equal(t, []uint16{1, 22, 80, 443, 3306, 8080, 65534}, set.Drain())
	require.Zero(t, set.Len())
}

func TestCollectEmptyChannel(t *testing.T) {
	ch := make(chan uint16)
	close(ch)

	set := Collect(ch)
	require.Zero(t, set.Len())
	require.Empty(t, set.Drain())
}

func TestOpenPortSetFromConcurrentProducers(t *testing.T) {
	ch := make(chan uint16)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for p := 1000 - offset; p > 0; p -= 4 {
				ch <- uint16(p)
			}
		}(i)
	}
	go func() {
		wg.Wait()
		close(ch)
	}()

	got := Collect(ch).Drain()
	require.Len(t, got, 1000)
	for i, p := range got {
		require.Equal(t, uint16(i+1), p)
	}
}
