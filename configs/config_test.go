package configs

import (
	"testing"
	"time"

	"orderdesk/entity"
	"orderdesk/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"DB_DRIVER", "DB_SOURCE", "PORT", "LANG_CODE", "JWT_TTL", "AUTH_REQUIRED", "REVENUE_CACHE_TTL", "SEED_MENU"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "orders.db", cfg.DBSource)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "ru", cfg.Lang)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, time.Minute, cfg.RevenueCacheTTL)
	assert.False(t, cfg.AuthRequired)
	assert.False(t, cfg.SeedMenu)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("AUTH_REQUIRED", "true")
	t.Setenv("REVENUE_CACHE_TTL", "not-a-duration")
	t.Setenv("SEED_MENU", "maybe")

	cfg := FromEnv()
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 90*time.Minute, cfg.JWTTTL)
	assert.True(t, cfg.AuthRequired)
	assert.Equal(t, time.Minute, cfg.RevenueCacheTTL, "bad values fall back")
	assert.False(t, cfg.SeedMenu)
}

func TestConnectionDBRejectsUnknownDriver(t *testing.T) {
	_, err := ConnectionDB(&Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func memDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := ConnectionDB(&Config{DBDriver: "sqlite", DBSource: "file:" + uuid.NewString() + "?mode=memory&cache=shared"})
	require.NoError(t, err)
	require.NoError(t, SetupDatabase(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestSeeds(t *testing.T) {
	db := memDB(t)
	log := logger.Nop()

	require.NoError(t, SeedMenu(db, log))
	require.NoError(t, SeedMenu(db, log))
	var items int64
	require.NoError(t, db.Model(&entity.Item{}).Count(&items).Error)
	assert.EqualValues(t, 5, items, "second run leaves a non-empty menu alone")

	require.NoError(t, SeedStaff(db, &Config{}, log))
	cfg := &Config{StaffEmail: "Chef@Example.com", StaffPassword: "pw"}
	require.NoError(t, SeedStaff(db, cfg, log))
	require.NoError(t, SeedStaff(db, cfg, log))

	var staff []entity.Staff
	require.NoError(t, db.Find(&staff).Error)
	require.Len(t, staff, 1)
	assert.Equal(t, "chef@example.com", staff[0].Email)
	assert.NotEqual(t, "pw", staff[0].Password)
}
