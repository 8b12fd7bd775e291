package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetOrLoad(t *testing.T) {
	c := New(0, time.Minute)
	calls := 0
	load := func() any {
		calls++
		return []string{"red", "blue"}
	}

	assert.Equal(t, []string{"red", "blue"}, c.GetOrLoad("catalog/hat", load))
	assert.Equal(t, []string{"red", "blue"}, c.GetOrLoad("catalog/hat", load))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, c.ItemCount())
}

func TestSetDeleteClear(t *testing.T) {
	c := New(time.Minute, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	c.Delete("a")
	_, ok = c.Get("a")
	assert.False(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.ItemCount())
}

func TestExpiry(t *testing.T) {
	c := New(10*time.Millisecond, time.Minute)
	c.Set("status", "x")
	time.Sleep(20 * time.Millisecond)
	_, ok := c.Get("status")
	assert.False(t, ok)
}
