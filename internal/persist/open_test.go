package persist

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/journey/internal/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackends(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cases := map[string]*config.Config{
		"memory":   {StoreBackend: BackendMemory},
		"file":     {StoreBackend: BackendFile, StoreDir: t.TempDir()},
		"redis":    {StoreBackend: BackendRedis, RedisAddr: mr.Addr()},
		"database": {StoreBackend: BackendDatabase, DBDriver: "sqlite", DBDSN: "file:open_test?mode=memory&cache=shared"},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			p, closer, err := Open(context.Background(), cfg)
			require.NoError(t, err)
			t.Cleanup(func() { _ = closer.Close() })
			runContract(t, p)
		})
	}
	assert.True(t, mr.Exists(redisKeyPrefix+"theme-storage"))
}

func TestOpenRejectsBadConfig(t *testing.T) {
	_, _, err := Open(context.Background(), &config.Config{StoreBackend: "s3"})
	assert.ErrorContains(t, err, "unsupported STORE_BACKEND")

	_, _, err = Open(context.Background(), &config.Config{StoreBackend: BackendDatabase, DBDriver: "memory"})
	assert.ErrorContains(t, err, "needs DB_DRIVER")
}
