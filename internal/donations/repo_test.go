package donations

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/united17/relief-portal/internal/stats"
	"github.com/united17/relief-portal/pkg/db/models"
	"github.com/united17/relief-portal/pkg/pagination"
)

func setupDonationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	donations := `
CREATE TABLE IF NOT EXISTS donations (
  id TEXT PRIMARY KEY,
  source_country TEXT NOT NULL,
  country_name TEXT,
  currency TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  amount_lkr NUMERIC NOT NULL,
  donor_name TEXT,
  donation_date DATETIME NOT NULL,
  collected_by TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(donations).Error)
	return db
}

func seedDonation(t *testing.T, repo *Repository, country, currency, collector string, amountLKR float64, date time.Time) models.Donation {
	t.Helper()

	d := models.Donation{
		ID:            uuid.New(),
		SourceCountry: country,
		Currency:      currency,
		Amount:        amountLKR,
		AmountLKR:     amountLKR,
		DonationDate:  date,
		CollectedBy:   collector,
	}
	require.NoError(t, repo.Create(context.Background(), &d))
	return d
}

func TestDonationListFilters(t *testing.T) {
	repo := NewRepository(setupDonationsTestDB(t))
	ctx := context.Background()

	june10 := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	june12 := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)
	june15 := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	seedDonation(t, repo, "Sri Lanka", "LKR", "Ayash", 5000, june10)
	seedDonation(t, repo, "UAE", "AED", "Atheeq", 120000, june12)
	seedDonation(t, repo, "Sri Lanka", "LKR", "Inas", 2500, june15)

	rows, err := repo.List(ctx, stats.Filter{SourceCountry: "Sri Lanka"}, 10, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// newest first
	assert.Equal(t, june15, rows[0].DonationDate.UTC())
	assert.Equal(t, june10, rows[1].DonationDate.UTC())

	rows, err = repo.List(ctx, stats.Filter{CollectedBy: "Atheeq"}, 10, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "AED", rows[0].Currency)

	// "all" is a pass-through sentinel, not a literal match
	rows, err = repo.List(ctx, stats.Filter{SourceCountry: "all", Currency: "ALL"}, 10, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	start := june11(t)
	rows, err = repo.List(ctx, stats.Filter{StartDate: &start}, 10, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func june11(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
}

func TestDonationListCursorPagination(t *testing.T) {
	repo := NewRepository(setupDonationsTestDB(t))
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedDonation(t, repo, "Sri Lanka", "LKR", "Ayash", 1000, base.AddDate(0, 0, i))
	}

	first, err := repo.List(ctx, stats.Filter{}, 2, nil)
	require.NoError(t, err)
	require.Len(t, first, 2)

	cursor := &pagination.Cursor{Date: first[1].DonationDate, ID: first[1].ID}
	second, err := repo.List(ctx, stats.Filter{}, 2, cursor)
	require.NoError(t, err)
	require.Len(t, second, 2)

	// pages never overlap and stay date-descending
	assert.True(t, second[0].DonationDate.Before(first[1].DonationDate))
	assert.True(t, second[1].DonationDate.Before(second[0].DonationDate))
}

func TestDonationDelete(t *testing.T) {
	repo := NewRepository(setupDonationsTestDB(t))
	ctx := context.Background()

	d := seedDonation(t, repo, "Germany", "EUR", "Ayash", 33000, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC))

	require.NoError(t, repo.Delete(ctx, d.ID))

	_, err := repo.FindByID(ctx, d.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.Delete(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDonationUpdatePersists(t *testing.T) {
	repo := NewRepository(setupDonationsTestDB(t))
	ctx := context.Background()

	d := seedDonation(t, repo, "Pakistan", "PKR", "Atheeq", 90000, time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC))

	d.CollectedBy = "Inas"
	donor := "Bilal"
	d.DonorName = &donor
	require.NoError(t, repo.Update(ctx, &d))

	got, err := repo.FindByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Inas", got.CollectedBy)
	require.NotNil(t, got.DonorName)
	assert.Equal(t, "Bilal", *got.DonorName)
}
