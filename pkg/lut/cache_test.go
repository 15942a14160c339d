package lut

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ctParams() ModalityParams {
	return ModalityParams{Slope: 1, Intercept: -1024, BitsStored: 12, OutputSigned: true, OutputBits: 13}
}

func TestCache_EqualKeysBuildOnce(t *testing.T) {
	c := NewCache()
	builds := 0
	build := func() *Table {
		builds++
		return BuildModality(ctParams(), nil)
	}
	a := c.GetOrBuild(ctParams(), build)
	b := c.GetOrBuild(ctParams(), build)
	require.NotNil(t, a)
	assert.Same(t, a, b)
	assert.Equal(t, 1, builds)

	s := c.Stats()
	assert.Equal(t, int64(1), s.Builds)
	assert.Equal(t, int64(1), s.Hits)
	assert.Equal(t, int64(1), s.Misses)
	assert.Equal(t, 1, s.Entries)
	runtime.KeepAlive(a)
}

func TestCache_DistinctKeys(t *testing.T) {
	c := NewCache()
	m := c.GetOrBuild(ctParams(), func() *Table { return BuildModality(ctParams(), nil) })
	v := VOIParams{Window: 400, Level: 40, MinLevel: -160, MaxLevel: 240}
	w := c.GetOrBuild(v, func() *Table { return BuildVOI(v, nil) })
	assert.NotSame(t, m, w)
	assert.Equal(t, 2, c.Len())

	other := ctParams()
	other.Intercept = -1000
	assert.Nil(t, c.Get(other))
	runtime.KeepAlive(m)
	runtime.KeepAlive(w)
}

func TestCache_NilNotCached(t *testing.T) {
	c := NewCache()
	identity := ModalityParams{Slope: 1, BitsStored: 8}
	assert.Nil(t, c.GetOrBuild(identity, func() *Table { return BuildModality(identity, nil) }))
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestCache_PutLastWriterWins(t *testing.T) {
	c := NewCache()
	first := BuildModality(ctParams(), nil)
	second := BuildModality(ctParams(), nil)
	c.Put(ctParams(), first)
	c.Put(ctParams(), second)
	assert.Same(t, second, c.Get(ctParams()))
	runtime.KeepAlive(first)
}

func TestCache_EvictsCollected(t *testing.T) {
	c := NewCache()
	putUnreferenced(c)
	require.Eventually(t, func() bool {
		runtime.GC()
		return c.Stats().Entries == 0
	}, 5*time.Second, 10*time.Millisecond)
	assert.Nil(t, c.Get(ctParams()))
}

//go:noinline
func putUnreferenced(c *Cache) {
	c.Put(ctParams(), BuildModality(ctParams(), nil))
}

func TestCache_Concurrent(t *testing.T) {
	c := NewCache()
	var wg sync.WaitGroup
	results := make([]*Table, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v := VOIParams{Window: float64(100 + i%4), Level: 40, MinLevel: -200, MaxLevel: 200}
			results[i] = c.GetOrBuild(v, func() *Table { return BuildVOI(v, nil) })
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		assert.NotNil(t, r)
	}
	assert.LessOrEqual(t, c.Len(), 4)
	runtime.KeepAlive(results)
}
