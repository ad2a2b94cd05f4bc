package dependencies

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Xushengqwer/identity_hub/models/entities"
)

func TestNewDialector(t *testing.T) {
	d, err := NewDialector("", "user:pw@tcp(localhost:3306)/db")
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())

	d, err = NewDialector("SQLite", ":memory:")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	_, err = NewDialector("postgres", "")
	assert.Error(t, err)
}

func TestAutoMigrateCreatesTables(t *testing.T) {
	d, err := NewDialector(DriverSQLite, ":memory:")
	require.NoError(t, err)
	cfg := NewGormConfig()
	cfg.Logger = logger.Discard
	db, err := gorm.Open(d, cfg)
	require.NoError(t, err)

	require.NoError(t, AutoMigrate(db))
	for _, model := range []interface{}{&entities.Identity{}, &entities.LoginHistory{}, &entities.RejectedAuthAttempt{}} {
		assert.True(t, db.Migrator().HasTable(model))
	}
	assert.True(t, db.Migrator().HasIndex(&entities.Identity{}, "idx_identities_external_id"))
	assert.True(t, db.Migrator().HasIndex(&entities.Identity{}, "idx_identities_phone"))
}

func TestPreviewDSNMasksPassword(t *testing.T) {
	assert.Equal(t, "identity:****@tcp(127.0.0.1:3306)/identity_hub",
		previewDSN("identity:secret@tcp(127.0.0.1:3306)/identity_hub"))
	assert.Equal(t, ":memory:", previewDSN(":memory:"))
}

func TestPublicObjectURLAndContentType(t *testing.T) {
	base, err := url.Parse("https://cdn.example.com/media")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/media/avatars/a/1.png", PublicObjectURL(base, "/avatars/a/1.png"))

	root, err := url.Parse("https://bucket-1.cos.ap-guangzhou.myqcloud.com")
	require.NoError(t, err)
	assert.Equal(t, "https://bucket-1.cos.ap-guangzhou.myqcloud.com/avatars/a/1.png", PublicObjectURL(root, "avatars/a/1.png"))

	assert.Equal(t, "image/jpeg", AvatarContentType("me.JPG"))
	assert.Equal(t, "application/octet-stream", AvatarContentType("me"))
}
