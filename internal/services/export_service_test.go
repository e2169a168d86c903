package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/clubhub/ads-backend/internal/models"
	"github.com/clubhub/ads-backend/internal/repository/repotest"
)

func TestExportBookingsOneSheetPerInventoryKey(t *testing.T) {
	repo := repotest.NewAdRepository()
	seedAd(repo, models.AdTypeAppBanner, models.AdStatusApproved, "2024-06-10", 3)
	seedAd(repo, models.AdTypeAppBanner, models.AdStatusActive, "2024-06-01", 3)
	listing := seedAd(repo, models.AdTypeClubListing, models.AdStatusApproved, "2024-06-01", 3)
	listing.ListingPosition = intPtr(2)
	repo.Put(listing)
	seedAd(repo, models.AdTypeWebsiteBanner, models.AdStatusPendingApproval, "2024-06-01", 3)

	svc := NewExportService(NewAdService(repo, nil, fixedClock(testNow)))
	data, err := svc.ExportBookings(context.Background(), models.Window{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"APP_BANNER", "CLUB_LISTING#2"}, f.GetSheetList())

	rows, err := f.GetRows("APP_BANNER")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Ad ID", rows[0][0])
	assert.Equal(t, "2024-06-01", rows[1][6])
	assert.Equal(t, "2024-06-10", rows[2][6])
	assert.Equal(t, "ACTIVE", rows[1][5])

	rows, err = f.GetRows("CLUB_LISTING#2")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestExportBookingsRespectsRange(t *testing.T) {
	repo := repotest.NewAdRepository()
	seedAd(repo, models.AdTypeAppBanner, models.AdStatusApproved, "2024-06-10", 3)

	svc := NewExportService(NewAdService(repo, nil, fixedClock(testNow)))
	data, err := svc.ExportBookings(context.Background(), models.Window{
		Start: models.MustParseDate("2024-07-01"),
		End:   models.MustParseDate("2024-07-31"),
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{emptyExportSheet}, f.GetSheetList())
	rows, err := f.GetRows(emptyExportSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
