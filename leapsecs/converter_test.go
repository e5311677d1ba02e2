package leapsecs

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverterUnloaded(t *testing.T) {
	var c Converter

	require.False(t, c.Ready())
	require.Nil(t, c.Snapshot())

	_, err := c.PosixToTAI(78796800)
	require.ErrorIs(t, err, ErrNotReady)
	_, err = c.TAIToPosix(78796811)
	require.ErrorIs(t, err, ErrNotReady)
	_, _, err = c.PosixRange()
	require.ErrorIs(t, err, ErrNotReady)
	_, _, err = c.TAIRange()
	require.ErrorIs(t, err, ErrNotReady)

	c.Publish(nil)
	require.False(t, c.Ready())
}

func TestConverterReady(t *testing.T) {
	c := NewConverter(canonicalTable(t))
	require.True(t, c.Ready())

	tai, err := c.PosixToTAI(78796800)
	require.NoError(t, err)
	assert.EqualValues(t, 78796811, tai)

	p, err := c.TAIToPosix(78796811)
	require.NoError(t, err)
	assert.EqualValues(t, 78796800, p)

	_, err = c.TAIToPosix(0)
	require.ErrorIs(t, err, ErrOutOfRange)

	lo, hi, err := c.PosixRange()
	require.NoError(t, err)
	assert.EqualValues(t, EpochPosix, lo)
	assert.EqualValues(t, fixtureExpires, hi)

	lo, hi, err = c.TAIRange()
	require.NoError(t, err)
	assert.EqualValues(t, EpochPosix+InitialDelta, lo)
	assert.EqualValues(t, fixtureExpiresTAI, hi)

	// Publishing nil never unloads a ready converter.
	c.Publish(nil)
	require.True(t, c.Ready())
}

func TestConverterSwap(t *testing.T) {
	old := canonicalTable(t)
	c := NewConverter(old)

	newer, err := NewTable(canonical, fixtureExpires+86400*365)
	require.NoError(t, err)

	snap := c.Snapshot()
	c.Publish(newer)

	// A reader holding the previous snapshot still sees it intact.
	_, hi := snap.PosixRange()
	assert.EqualValues(t, fixtureExpires, hi)
	assert.Same(t, old, snap)
	assert.Same(t, newer, c.Snapshot())

	tai, err := c.PosixToTAI(fixtureExpires + 1)
	require.NoError(t, err)
	assert.EqualValues(t, fixtureExpires+1+37, tai)
}

func TestConverterConcurrentPublish(t *testing.T) {
	short := canonicalTable(t)
	long, err := NewTable(canonical, fixtureExpires+86400)
	require.NoError(t, err)
	c := NewConverter(short)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				for _, p := range []int64{63072000, 78796799, 78796800, 1483228800, fixtureExpires} {
					tai, err := c.PosixToTAI(p)
					if !assert.NoError(t, err) {
						return
					}
					back, err := c.TAIToPosix(tai)
					if !assert.NoError(t, err) || !assert.Equal(t, p, back) {
						return
					}
				}
			}
		}()
	}
	for i := 0; i < 1000; i++ {
		if i%2 == 0 {
			c.Publish(long)
		} else {
			c.Publish(short)
		}
	}
	close(stop)
	wg.Wait()
}

func BenchmarkPosixToTAI(b *testing.B) {
	tbl, err := NewTable(canonical, fixtureExpires)
	if err != nil {
		b.Fatal(err)
	}
	c := NewConverter(tbl)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.PosixToTAI(int64(EpochPosix + i%1700000000))
	}
}
