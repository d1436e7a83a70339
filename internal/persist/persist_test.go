package persist

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// runContract checks the behaviour every adapter must share.
func runContract(t *testing.T, p Persister) {
	t.Helper()
	ctx := context.Background()

	_, err := p.Load(ctx, "theme-storage")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, p.Save(ctx, "theme-storage", []byte(`{"isDarkMode":true}`)))
	got, err := p.Load(ctx, "theme-storage")
	require.NoError(t, err)
	assert.JSONEq(t, `{"isDarkMode":true}`, string(got))

	// whole-object overwrite, last write wins
	require.NoError(t, p.Save(ctx, "theme-storage", []byte(`{"isDarkMode":false}`)))
	got, err = p.Load(ctx, "theme-storage")
	require.NoError(t, err)
	assert.JSONEq(t, `{"isDarkMode":false}`, string(got))

	// keys are independent
	require.NoError(t, p.Save(ctx, "document-storage", []byte(`{"documents":[]}`)))
	got, err = p.Load(ctx, "theme-storage")
	require.NoError(t, err)
	assert.JSONEq(t, `{"isDarkMode":false}`, string(got))

	if pinger, ok := p.(Pinger); ok {
		assert.NoError(t, pinger.Ping(ctx))
	}
}

func TestMemoryPersister(t *testing.T) {
	runContract(t, NewMemoryPersister())
}

func TestMemoryPersisterCopiesInput(t *testing.T) {
	p := NewMemoryPersister()
	buf := []byte(`{"a":1}`)
	require.NoError(t, p.Save(context.Background(), "k", buf))
	buf[2] = 'b'

	got, err := p.Load(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))
}

func TestFilePersister(t *testing.T) {
	p, err := NewFilePersister(t.TempDir())
	require.NoError(t, err)
	runContract(t, p)
}

func TestFilePersisterRejectsPathKeys(t *testing.T) {
	p, err := NewFilePersister(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, p.Save(context.Background(), "../escape", []byte(`{}`)))
	_, err = p.Load(context.Background(), "a/b")
	assert.Error(t, err)
}

func TestGormPersister(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	p, err := NewGormPersister(db)
	require.NoError(t, err)
	runContract(t, p)
}

func TestRedisPersister(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	p, err := NewRedisPersister(context.Background(), RedisOptions{Addr: mr.Addr(), Prefix: "journey:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	runContract(t, p)
	assert.True(t, mr.Exists("journey:theme-storage"))
}

func TestRedisPersisterUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisPersister(context.Background(), RedisOptions{Addr: addr})
	assert.Error(t, err)
}
