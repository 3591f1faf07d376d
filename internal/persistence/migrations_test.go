package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRunMigrations_NilPoolSkips(t *testing.T) {
	err := RunMigrations(context.Background(), nil, "does-not-exist", zap.NewNop())
	assert.NoError(t, err)
}

func TestPostgres_NilSafe(t *testing.T) {
	var pg *Postgres
	assert.False(t, pg.Enabled())
	assert.Nil(t, pg.PoolHandle())
	assert.Error(t, pg.Ping(context.Background()))
	pg.Close()
}

func TestRedis_Disabled(t *testing.T) {
	r := &Redis{}
	assert.False(t, r.Enabled())
	assert.Error(t, r.Ping(context.Background()))
	r.Close()
}
