package service_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/service"
	"github.com/glanzwerk/crm/internal/storage"
	"github.com/glanzwerk/crm/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func qualityRequest(checkType, date string, score float64) *domain.QualityCheckRequest {
	return &domain.QualityCheckRequest{
		InspectorName: "Jonas Becker",
		CheckDate:     date,
		CheckType:     checkType,
		OverallScore:  &score,
	}
}

func TestQualityCheckService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, f.db, "Anna", "Schmidt", "anna@example.com")

	req := qualityRequest("cleaning", "2025-03-10", 88.5)
	req.CustomerID = &customer.ID
	check, err := f.quality.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.QualityStatusPending, check.Status)
	assert.Equal(t, "2025-03-10", check.CheckDate)
	assert.Equal(t, "Anna Schmidt", check.CustomerName)

	req = qualityRequest("cleaning", "2025-03-10", 70)
	req.OrderID = ptr(int64(5))
	_, err = f.quality.Create(ctx, req)
	assert.ErrorIs(t, err, service.ErrUnknownOrder)

	_, err = f.quality.UpdateStatus(ctx, check.ID, domain.QualityStatus("approved"))
	assert.ErrorIs(t, err, service.ErrInvalidStatus)

	done, err := f.quality.UpdateStatus(ctx, check.ID, domain.QualityStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.QualityStatusCompleted, done.Status)
}

func TestQualityCheckService_Photos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	check, err := f.quality.Create(ctx, qualityRequest("cleaning", "2025-03-10", 91))
	require.NoError(t, err)

	photo, err := f.quality.AddPhoto(ctx, check.ID, service.PhotoUpload{
		Filename:    "Eingang.JPG",
		ContentType: "image/jpeg",
		Caption:     "Eingangsbereich nach Reinigung",
		Data:        strings.NewReader("jpeg bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Eingang.JPG", photo.Filename)
	assert.Equal(t, int64(10), photo.Size)

	record, body, err := f.quality.OpenPhoto(ctx, check.ID, photo.ID)
	require.NoError(t, err)
	content, err := io.ReadAll(body)
	require.NoError(t, body.Close())
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(content))
	assert.True(t, strings.HasPrefix(record.StoragePath, "quality-checks/"))
	assert.True(t, strings.HasSuffix(record.StoragePath, ".jpg"))

	_, err = f.quality.AddPhoto(ctx, check.ID, service.PhotoUpload{
		Filename:    "scan.pdf",
		ContentType: "application/pdf",
		Data:        strings.NewReader("%PDF"),
	})
	assert.ErrorIs(t, err, service.ErrInvalidPhoto)

	_, err = f.quality.AddPhoto(ctx, 999, service.PhotoUpload{ContentType: "image/png", Data: strings.NewReader("x")})
	assert.ErrorIs(t, err, service.ErrQualityCheckNotFound)

	_, _, err = f.quality.OpenPhoto(ctx, check.ID, 999)
	assert.ErrorIs(t, err, service.ErrPhotoNotFound)

	detail, err := f.quality.GetByID(ctx, check.ID)
	require.NoError(t, err)
	require.Len(t, detail.Photos, 1)

	require.NoError(t, f.quality.Delete(ctx, check.ID))
	_, err = f.files.Download(ctx, record.StoragePath)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, f.quality.Delete(ctx, check.ID), service.ErrQualityCheckNotFound)
}

func TestQualityCheckService_Statistics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, c := range []struct {
		checkType string
		date      string
		score     float64
	}{
		{"cleaning", "2025-01-15", 80},
		{"cleaning", "2025-01-20", 91},
		{"cleaning", "2025-03-01", 70},
		{"maintenance", "2025-03-02", 65.5},
		{"cleaning", "2024-11-30", 40},
		{"inspection", "2025-02-10", 100},
	} {
		_, err := f.quality.Create(ctx, qualityRequest(c.checkType, c.date, c.score))
		require.NoError(t, err)
	}

	stats, err := f.quality.Statistics(ctx)
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{"pending": 6}, stats.StatusCounts)
	assert.Equal(t, map[string]float64{"cleaning": 70.25, "maintenance": 65.5, "inspection": 100}, stats.AvgScoresByType)

	require.Len(t, stats.MonthlyScores, 12)
	assert.Equal(t, domain.MonthlyScoreDTO{Month: 1, AverageScore: 85.5, Count: 2}, stats.MonthlyScores[0])
	assert.Equal(t, domain.MonthlyScoreDTO{Month: 2, AverageScore: 100, Count: 1}, stats.MonthlyScores[1])
	assert.Equal(t, domain.MonthlyScoreDTO{Month: 3, AverageScore: 67.75, Count: 2}, stats.MonthlyScores[2])
	assert.Equal(t, domain.MonthlyScoreDTO{Month: 11}, stats.MonthlyScores[10])

	require.Len(t, stats.RecentChecks, 5)
	assert.Equal(t, "2025-03-02", stats.RecentChecks[0].CheckDate)
}

func TestQualityCheckService_Standards(t *testing.T) {
	f := newFixture(t)

	standards := f.quality.Standards().Standards
	require.Contains(t, standards, "cleaning")
	assert.Equal(t, 90.0, standards["cleaning"]["excellent"].MinScore)
	assert.Equal(t, 60.0, standards["maintenance"]["acceptable"].MinScore)
}
