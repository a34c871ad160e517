package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/friend-graph/config"
	"github.com/d60-Lab/friend-graph/internal/model"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: 5000},
		Database: config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", LogLevel: "silent"},
	}
}

func TestInitDBMigratesTables(t *testing.T) {
	db, err := InitDB(testConfig())
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable(&model.User{}))
	assert.True(t, db.Migrator().HasTable(&model.Friendship{}))
}

func TestFriendshipOrderCheckConstraint(t *testing.T) {
	db, err := InitDB(testConfig())
	require.NoError(t, err)

	require.NoError(t, db.Create(&model.User{ID: "a", Username: "a", Hobbies: []string{}}).Error)
	require.NoError(t, db.Create(&model.User{ID: "b", Username: "b", Hobbies: []string{}}).Error)

	err = db.Create(&model.Friendship{User1ID: "b", User2ID: "a"}).Error
	assert.Error(t, err)

	require.NoError(t, db.Create(model.NewFriendship("b", "a")).Error)
}

func TestFriendshipForeignKeys(t *testing.T) {
	db, err := InitDB(testConfig())
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.User{ID: "a", Username: "a", Hobbies: []string{}}).Error)

	err = db.Create(model.NewFriendship("a", "ghost")).Error
	assert.ErrorIs(t, err, gorm.ErrForeignKeyViolated)

	require.NoError(t, db.Create(&model.User{ID: "b", Username: "b", Hobbies: []string{}}).Error)
	require.NoError(t, db.Create(model.NewFriendship("a", "b")).Error)

	err = db.Delete(&model.User{ID: "a"}).Error
	assert.ErrorIs(t, err, gorm.ErrForeignKeyViolated)
}

func TestSQLiteDSNEnablesForeignKeys(t *testing.T) {
	assert.Equal(t, ":memory:?_foreign_keys=on", sqliteDSN(":memory:"))
	assert.Equal(t, "file:app.db?cache=shared&_foreign_keys=on", sqliteDSN("file:app.db?cache=shared"))
	assert.Equal(t, "app.db?_fk=1", sqliteDSN("app.db?_fk=1"))
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open("mysql", "dsn", nil)
	assert.Error(t, err)
}

func TestInitRedis(t *testing.T) {
	cfg := testConfig()
	client, err := InitRedis(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, client)

	mr := miniredis.RunT(t)
	cfg.Redis.Addr = mr.Addr()
	client, err = InitRedis(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, client)
	defer client.Close()
}
