package registry

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/GriffinCanCode/poseidon/internal/bag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type closer struct {
	closed int
}

func (c *closer) Close() error {
	c.closed++
	return nil
}

// recorder is an Observer that keeps every call.
type recorder struct {
	mu   sync.Mutex
	ops  []string
	size int
}

func (r *recorder) ObserveRegistryOp(op, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op+":"+result)
}

func (r *recorder) SetRegistryEntries(count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.size = count
}

func TestAddRejectsDuplicate(t *testing.T) {
	r := New()

	require.NoError(t, r.Add("x", 1))
	err := r.Add("x", 2)

	require.Error(t, err)
	assert.ErrorIs(t, err, bag.ErrKeyAlreadyExists)

	var keyErr *bag.KeyError
	require.True(t, errors.As(err, &keyErr))
	assert.Equal(t, "add", keyErr.Op)
	assert.Equal(t, "x", keyErr.Key)

	value, ok := r.Fetch("x")
	assert.True(t, ok)
	assert.Equal(t, 1, value, "rejected add must not overwrite")
}

func TestStoreSharesAddPolicy(t *testing.T) {
	r := New()

	require.NoError(t, r.Store("x", 1))
	assert.ErrorIs(t, r.Store("x", 2), bag.ErrKeyAlreadyExists)
	assert.ErrorIs(t, r.Add("x", 3), bag.ErrKeyAlreadyExists)
}

func TestRemove(t *testing.T) {
	r := New()

	err := r.Remove("y")
	assert.ErrorIs(t, err, bag.ErrKeyNotFound)

	c := &closer{}
	require.NoError(t, r.Add("y", c))
	require.NoError(t, r.Remove("y"))

	assert.False(t, r.Contains("y"))
	assert.Equal(t, 1, c.closed)
	assert.ErrorIs(t, r.Remove("y"), bag.ErrKeyNotFound)
	assert.Equal(t, 1, c.closed)
}

func TestAddAfterRemove(t *testing.T) {
	r := New()

	require.NoError(t, r.Add("k", "old"))
	require.NoError(t, r.Remove("k"))
	require.NoError(t, r.Add("k", "new"))

	value, err := r.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "new", value)
}

func TestFetchAndGet(t *testing.T) {
	r := New()
	require.NoError(t, r.Add("present", nil))

	value, ok := r.Fetch("present")
	assert.True(t, ok)
	assert.Nil(t, value)

	value, ok = r.Fetch("absent")
	assert.False(t, ok)
	assert.Nil(t, value)

	_, err := r.Get("absent")
	assert.ErrorIs(t, err, bag.ErrKeyNotFound)

	value, err = r.Get("present")
	assert.NoError(t, err)
	assert.Nil(t, value)
}

func TestSizeKeysValues(t *testing.T) {
	r := New()
	require.NoError(t, r.Add("b", 2))
	require.NoError(t, r.Add("a", 1))

	assert.Equal(t, 2, r.Size())
	assert.Equal(t, []string{"b", "a"}, r.Keys())
	assert.Equal(t, bag.Snapshot{{Key: "b", Value: 2}, {Key: "a", Value: 1}}, r.Values())
}

func TestFlushReturnsClearedEntries(t *testing.T) {
	r := New()
	c := &closer{}
	require.NoError(t, r.Add("a", 1))
	require.NoError(t, r.Add("conn", c))

	cleared := r.Flush()

	assert.Equal(t, bag.Snapshot{{Key: "a", Value: 1}, {Key: "conn", Value: c}}, cleared)
	assert.Equal(t, 0, r.Size())
	assert.Equal(t, 1, c.closed)

	assert.Empty(t, r.Flush())
	require.NoError(t, r.Add("a", 2), "registry stays usable after flush")
}

func TestProject(t *testing.T) {
	r := New()
	require.NoError(t, r.Add("a", 1))
	require.NoError(t, r.Add("b", 2))

	p := r.Project(bag.ProjectionOptions{Keys: []string{"b", "z"}, DropKeys: true})
	assert.Equal(t, []any{2, nil}, p.Data())
}

func TestIdentity(t *testing.T) {
	a, b := New(), New()

	assert.True(t, strings.HasPrefix(a.Identity(), "reg_"))
	assert.NotEqual(t, a.Identity(), b.Identity())
	assert.Equal(t, a.Identity(), a.Identity())
}

func TestCreatedAt(t *testing.T) {
	before := time.Now()
	r := New()
	after := time.Now()

	created := r.CreatedAt()
	assert.GreaterOrEqual(t, created.UnixMilli(), before.UnixMilli())
	assert.LessOrEqual(t, created.UnixMilli(), after.UnixMilli())
}

func TestSetObserverReportsLiveSize(t *testing.T) {
	r := New()
	require.NoError(t, r.Add("a", 1))
	require.NoError(t, r.Add("b", 2))

	rec := &recorder{}
	r.SetObserver(rec)
	assert.Equal(t, 2, rec.size)

	require.NoError(t, r.Remove("a"))
	assert.Equal(t, []string{"remove:ok"}, rec.ops)
	assert.Equal(t, 1, rec.size)

	r.SetObserver(nil)
	require.NoError(t, r.Add("c", 3))
	assert.Len(t, rec.ops, 1)
}

func TestObserver(t *testing.T) {
	rec := &recorder{}
	r := New(WithObserver(rec))

	require.NoError(t, r.Add("a", 1))
	_ = r.Add("a", 2)
	_, _ = r.Fetch("a")
	_, _ = r.Fetch("b")
	_, _ = r.Get("b")
	_ = r.Remove("b")
	require.NoError(t, r.Store("c", 3))
	r.Flush()

	assert.Equal(t, []string{
		"add:ok",
		"add:rejected",
		"fetch:ok",
		"fetch:miss",
		"get:miss",
		"remove:rejected",
		"store:ok",
		"flush:ok",
	}, rec.ops)
	assert.Equal(t, 0, rec.size)
}

func TestLogsRejections(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := New(WithLogger(zap.New(core)))

	require.NoError(t, r.Add("a", 1))
	_ = r.Add("a", 2)

	rejected := logs.FilterMessage("Rejected duplicate key").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, "a", rejected[0].ContextMap()["key"])
	assert.Equal(t, r.Identity(), rejected[0].ContextMap()["registry"])
}

func TestConcurrentAddSingleWinner(t *testing.T) {
	r := New()

	const workers = 50
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := r.Add("shared", i); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
			_ = r.Add(fmt.Sprintf("own-%d", i), i)
			_, _ = r.Fetch("shared")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, workers+1, r.Size())
}
