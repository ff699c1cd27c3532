package infra

import (
	"fmt"
	"testing"

	"github.com/amirasaad/findash/pkg/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"finance.db", "finance.db?_foreign_keys=on"},
		{"file:test?mode=memory", "file:test?mode=memory&_foreign_keys=on"},
		{"finance.db?_foreign_keys=off", "finance.db?_foreign_keys=off"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SQLiteDSN(tt.in))
		})
	}
}

func TestIsPostgresURL(t *testing.T) {
	assert.True(t, IsPostgresURL("postgres://u:p@localhost:5432/db"))
	assert.True(t, IsPostgresURL("postgresql://localhost/db"))
	assert.False(t, IsPostgresURL("finance.db"))
	assert.False(t, IsPostgresURL("file::memory:"))
}

func TestNewDBConnection(t *testing.T) {
	t.Run("missing url", func(t *testing.T) {
		_, err := NewDBConnection(&config.DB{}, "test")
		assert.Error(t, err)
		_, err = NewDBConnection(nil, "test")
		assert.Error(t, err)
	})

	t.Run("sqlite in memory migrates schema", func(t *testing.T) {
		url := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
		db, err := NewDBConnection(&config.DB{Url: url}, "test")
		require.NoError(t, err)
		t.Cleanup(func() {
			sqlDB, _ := db.DB()
			_ = sqlDB.Close()
		})

		assert.True(t, db.Migrator().HasTable("users"))
		assert.True(t, db.Migrator().HasTable("transactions"))

		var fk int
		require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
		assert.Equal(t, 1, fk)
	})
}
