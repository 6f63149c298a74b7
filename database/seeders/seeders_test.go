package seeders_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-studio/atelier/app/models"
	"github.com/inkwell-studio/atelier/config"
	"github.com/inkwell-studio/atelier/database/seeders"
	"github.com/inkwell-studio/atelier/pkg/auth"
	"github.com/inkwell-studio/atelier/pkg/testkit"
)

func TestSeedIsRepeatable(t *testing.T) {
	config.Set("ADMIN_EMAIL", "Owner@Studio.test")
	config.Set("ADMIN_PASSWORD", "kiln-secret")
	db := testkit.SQLite(t, models.All()...)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, seeders.RunAll(ctx, db, &out))
	require.NoError(t, seeders.RunAll(ctx, db, &out))
	assert.Contains(t, out.String(), "Seeding artworks")

	var admin models.User
	require.NoError(t, db.Where("email = ?", "owner@studio.test").First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, auth.CheckPassword(admin.Password, "kiln-secret"))

	var artworks, users int64
	db.Model(&models.Artwork{}).Count(&artworks)
	db.Model(&models.User{}).Count(&users)
	assert.Equal(t, int64(4), artworks)
	assert.Equal(t, int64(1), users)
}
