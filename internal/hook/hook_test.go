package hook

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/qs3c/alloc_server/internal/repository"
)

func recorder(name string, calls *[]string, err error) Func {
	return func(ctx context.Context, stores *repository.Stores, subscriptionID int64) error {
		*calls = append(*calls, name)
		return err
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	var calls []string

	require.NoError(t, r.Register("a", recorder("a", &calls, nil)))
	err := r.Register("a", recorder("a", &calls, nil))
	assert.ErrorIs(t, err, ErrDuplicateHook)

	require.NoError(t, r.Register("b", recorder("b", &calls, nil)))
	assert.Equal(t, []string{"a", "b"}, r.Names())
}

func TestNewDispatcher_UnknownName(t *testing.T) {
	r := NewRegistry()
	_, err := NewDispatcher(r, []string{"missing"}, zap.NewNop())
	assert.ErrorIs(t, err, ErrUnknownHook)
	assert.Contains(t, err.Error(), "missing")
}

func TestDispatcher_RunsInOrderOnce(t *testing.T) {
	r := NewRegistry()
	var calls []string
	require.NoError(t, r.Register("first", recorder("first", &calls, nil)))
	require.NoError(t, r.Register("second", recorder("second", &calls, nil)))
	require.NoError(t, r.Register("unused", recorder("unused", &calls, nil)))

	d, err := NewDispatcher(r, []string{"second", "first"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first"}, d.Names())

	require.NoError(t, d.OnExpire(context.Background(), nil, 1))
	assert.Equal(t, []string{"second", "first"}, calls)
}

func TestDispatcher_StopsOnError(t *testing.T) {
	r := NewRegistry()
	var calls []string
	boom := errors.New("boom")
	require.NoError(t, r.Register("ok", recorder("ok", &calls, nil)))
	require.NoError(t, r.Register("bad", recorder("bad", &calls, boom)))
	require.NoError(t, r.Register("after", recorder("after", &calls, nil)))

	d, err := NewDispatcher(r, []string{"ok", "bad", "after"}, zap.NewNop())
	require.NoError(t, err)

	err = d.OnExpire(context.Background(), nil, 1)
	assert.ErrorIs(t, err, boom)
	assert.EqualError(t, err, "expire hook bad: boom")
	assert.Equal(t, []string{"ok", "bad"}, calls)
}

func TestDispatcher_Empty(t *testing.T) {
	d, err := NewDispatcher(NewRegistry(), nil, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, d.OnExpire(context.Background(), nil, 1))
	assert.Empty(t, d.Names())
}
