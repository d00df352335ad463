package diagnostic

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnai/internal/assessment"
)

func TestQuestionCacheFirstWriteWins(t *testing.T) {
	c := NewQuestionCache()

	stored, wrote := c.PutIfAbsent(1, assessment.Question{Text: "first", Options: []string{"a", "b"}})
	require.True(t, wrote)
	assert.Equal(t, "first", stored.Text)

	stored, wrote = c.PutIfAbsent(1, assessment.Question{Text: "second", Options: []string{"c", "d"}})
	assert.False(t, wrote)
	assert.Equal(t, "first", stored.Text)

	got, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "first", got.Text)

	_, ok = c.Get(2)
	assert.False(t, ok)
}

func TestQuestionCacheEntriesAreImmutable(t *testing.T) {
	c := NewQuestionCache()
	opts := []string{"a", "b"}
	c.PutIfAbsent(0, assessment.Question{Text: "q", Options: opts})

	opts[0] = "changed"
	got, _ := c.Get(0)
	got.Options[1] = "changed too"

	again, _ := c.Get(0)
	assert.Equal(t, []string{"a", "b"}, again.Options)
}

func TestQuestionCacheConcurrentWriters(t *testing.T) {
	c := NewQuestionCache()

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := map[int]int{}

	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 5 {
				if _, wrote := c.PutIfAbsent(i, assessment.Question{Text: fmt.Sprintf("writer %d", w)}); wrote {
					mu.Lock()
					winners[i]++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, c.Len())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, c.Indexes())
	for i := range 5 {
		assert.Equal(t, 1, winners[i], "index %d", i)
	}
}
