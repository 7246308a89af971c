package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstanceIsShared(t *testing.T) {
	t.Cleanup(Reset)

	a := Instance()
	b := Instance()

	assert.Same(t, a, b)
	assert.Equal(t, a.Identity(), b.Identity())
}

func TestInitFirstCallWins(t *testing.T) {
	t.Cleanup(Reset)

	rec := &recorder{}
	first := Init(WithObserver(rec))
	second := Init()

	assert.Same(t, first, second)

	require.NoError(t, second.Add("a", 1))
	assert.Equal(t, []string{"add:ok"}, rec.ops)
}

func TestResetIsolatesTests(t *testing.T) {
	t.Cleanup(Reset)

	c := &closer{}
	before := Instance()
	require.NoError(t, before.Add("conn", c))

	Reset()
	after := Instance()

	assert.NotSame(t, before, after)
	assert.Equal(t, 0, after.Size())
	assert.Equal(t, 1, c.closed, "reset tears down held values")
	require.NoError(t, after.Add("conn", 2))
}

func TestResetWithoutInstance(t *testing.T) {
	Reset()
	Reset()
	assert.Equal(t, 0, Instance().Size())
	Reset()
}

func TestConcurrentInstance(t *testing.T) {
	t.Cleanup(Reset)

	const workers = 20
	got := make([]*Registry, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = Instance()
		}(i)
	}
	wg.Wait()

	for _, r := range got {
		assert.Same(t, got[0], r)
	}
}
