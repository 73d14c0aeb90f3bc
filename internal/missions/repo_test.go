package missions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/united17/relief-portal/pkg/db/models"
	"github.com/united17/relief-portal/pkg/enums"
)

func setupMissionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// _foreign_keys=on so sqlite enforces the ON DELETE CASCADE clauses on
	// every pooled connection.
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{})
	require.NoError(t, err)

	missions := `
CREATE TABLE IF NOT EXISTS missions (
  id TEXT PRIMARY KEY,
  district TEXT NOT NULL,
  area TEXT NOT NULL,
  total_spent NUMERIC NOT NULL DEFAULT 0,
  mission_date DATETIME NOT NULL,
  remarks TEXT,
  volunteers_count INTEGER NOT NULL DEFAULT 0,
  volunteer_names TEXT,
  drive_link TEXT,
  featured_image_url TEXT,
  created_by TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	items := `
CREATE TABLE IF NOT EXISTS mission_items (
  id TEXT PRIMARY KEY,
  mission_id TEXT NOT NULL REFERENCES missions(id) ON DELETE CASCADE,
  item_name TEXT NOT NULL,
  quantity NUMERIC NOT NULL,
  unit_price NUMERIC NOT NULL,
  total_price NUMERIC NOT NULL,
  created_at DATETIME
);`
	photos := `
CREATE TABLE IF NOT EXISTS mission_photos (
  id TEXT PRIMARY KEY,
  mission_id TEXT NOT NULL REFERENCES missions(id) ON DELETE CASCADE,
  photo_type TEXT NOT NULL,
  photo_url TEXT NOT NULL,
  linked_item_id TEXT,
  created_at DATETIME
);`
	for _, ddl := range []string{missions, items, photos} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

func seedMission(t *testing.T, repo *Repository, total float64) *models.Mission {
	t.Helper()

	mission := &models.Mission{
		ID:          uuid.New(),
		District:    "Ratnapura",
		Area:        "Eheliyagoda",
		TotalSpent:  total,
		MissionDate: time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
		CreatedBy:   "Ayash",
	}
	require.NoError(t, repo.Create(context.Background(), mission))
	return mission
}

func newItem(name string, quantity, unitPrice, totalPrice float64) *models.MissionItem {
	return &models.MissionItem{
		ID:         uuid.New(),
		ItemName:   name,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: totalPrice,
	}
}

func TestMissionAddItemSyncsTotalSpent(t *testing.T) {
	repo := NewRepository(setupMissionsTestDB(t))
	ctx := context.Background()

	// item-less missions keep their stored figure until the first line lands
	mission := seedMission(t, repo, 999)

	require.NoError(t, repo.AddItem(ctx, mission.ID, newItem("Rice 5kg", 10, 1250.50, 12505.00)))
	require.NoError(t, repo.AddItem(ctx, mission.ID, newItem("Water bottles", 3, 0.25, 0.75)))

	got, err := repo.FindByID(ctx, mission.ID)
	require.NoError(t, err)
	assert.Equal(t, 12505.75, got.TotalSpent)
	assert.Len(t, got.Items, 2)
}

func TestMissionRemoveItemSyncsTotalSpent(t *testing.T) {
	repo := NewRepository(setupMissionsTestDB(t))
	ctx := context.Background()

	mission := seedMission(t, repo, 0)
	kept := newItem("Dry rations", 4, 500, 2000)
	removed := newItem("Tarpaulins", 2, 750, 1500)
	require.NoError(t, repo.AddItem(ctx, mission.ID, kept))
	require.NoError(t, repo.AddItem(ctx, mission.ID, removed))

	require.NoError(t, repo.RemoveItem(ctx, mission.ID, removed.ID))

	got, err := repo.FindByID(ctx, mission.ID)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, got.TotalSpent)
	require.Len(t, got.Items, 1)
	assert.Equal(t, kept.ID, got.Items[0].ID)

	// removing the last line brings the total back to zero
	require.NoError(t, repo.RemoveItem(ctx, mission.ID, kept.ID))
	got, err = repo.FindByID(ctx, mission.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.TotalSpent)
}

func TestMissionRemoveItemNotFound(t *testing.T) {
	repo := NewRepository(setupMissionsTestDB(t))
	ctx := context.Background()

	mission := seedMission(t, repo, 0)

	err := repo.RemoveItem(ctx, mission.ID, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// an item id paired with the wrong mission must not delete anything
	item := newItem("Rice", 1, 100, 100)
	require.NoError(t, repo.AddItem(ctx, mission.ID, item))
	err = repo.RemoveItem(ctx, uuid.New(), item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMissionDeleteCascades(t *testing.T) {
	repo := NewRepository(setupMissionsTestDB(t))
	ctx := context.Background()

	mission := seedMission(t, repo, 0)
	item := newItem("Rice", 1, 100, 100)
	require.NoError(t, repo.AddItem(ctx, mission.ID, item))
	require.NoError(t, repo.AddPhoto(ctx, &models.MissionPhoto{
		ID:           uuid.New(),
		MissionID:    mission.ID,
		PhotoType:    enums.PhotoTypeReceipt,
		PhotoURL:     "https://storage.googleapis.com/u17-photos/missions/x/receipt/1.jpg",
		LinkedItemID: &item.ID,
	}))

	require.NoError(t, repo.Delete(ctx, mission.ID))

	db := repo.db
	var itemCount, photoCount int64
	require.NoError(t, db.Model(&models.MissionItem{}).Where("mission_id = ?", mission.ID).Count(&itemCount).Error)
	require.NoError(t, db.Model(&models.MissionPhoto{}).Where("mission_id = ?", mission.ID).Count(&photoCount).Error)
	assert.Zero(t, itemCount, "items must cascade with the mission")
	assert.Zero(t, photoCount, "photos must cascade with the mission")

	err := repo.Delete(ctx, mission.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
