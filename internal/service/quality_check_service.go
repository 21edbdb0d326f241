package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/mapper"
	"github.com/glanzwerk/crm/internal/repository"
	"github.com/glanzwerk/crm/internal/seed"
	"github.com/glanzwerk/crm/internal/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	changeTypeQualityCheck = "quality_check"

	recentCheckLimit = 5
)

var qualityStatuses = map[domain.QualityStatus]bool{
	domain.QualityStatusPending:    true,
	domain.QualityStatusInProgress: true,
	domain.QualityStatusCompleted:  true,
	domain.QualityStatusFailed:     true,
}

// photoContentTypes lists the accepted upload formats
var photoContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// PhotoUpload is one uploaded inspection photo
type PhotoUpload struct {
	Filename    string
	ContentType string
	Caption     string
	Data        io.Reader
}

type QualityCheckService struct {
	checkRepo *repository.QualityCheckRepository
	files     storage.Storage
	catalog   *seed.Catalog
	refs      referenceChecker
	events    ChangePublisher
	clock     Clock
	logger    *zap.Logger
}

func NewQualityCheckService(
	checkRepo *repository.QualityCheckRepository,
	customerRepo *repository.CustomerRepository,
	orderRepo *repository.OrderRepository,
	files storage.Storage,
	catalog *seed.Catalog,
	events ChangePublisher,
	clock Clock,
	logger *zap.Logger,
) *QualityCheckService {
	return &QualityCheckService{
		checkRepo: checkRepo,
		files:     files,
		catalog:   catalog,
		refs:      referenceChecker{customers: customerRepo, orders: orderRepo},
		events:    publisherOrNop(events),
		clock:     clockOrNow(clock),
		logger:    logger,
	}
}

func applyQualityCheckRequest(check *domain.QualityCheck, req *domain.QualityCheckRequest) error {
	checkDate, err := parseDate(req.CheckDate)
	if err != nil {
		return err
	}
	if checkDate == nil {
		return fmt.Errorf("%w: check_date is required", ErrInvalidInput)
	}

	check.OrderID = req.OrderID
	check.CustomerID = req.CustomerID
	check.InspectorName = req.InspectorName
	check.CheckDate = *checkDate
	check.CheckType = req.CheckType
	check.OverallScore = derefOr(req.OverallScore, 0)
	check.Status = valueOr(req.Status, domain.QualityStatusPending)
	check.Notes = req.Notes
	check.CheckDetails = req.CheckDetails
	check.Recommendations = req.Recommendations
	return nil
}

func (s *QualityCheckService) Create(ctx context.Context, req *domain.QualityCheckRequest) (*domain.QualityCheckDTO, error) {
	if err := s.refs.check(ctx, req.CustomerID, req.OrderID); err != nil {
		return nil, err
	}

	check := &domain.QualityCheck{}
	if err := applyQualityCheckRequest(check, req); err != nil {
		return nil, err
	}
	if err := s.checkRepo.Create(ctx, check); err != nil {
		return nil, fmt.Errorf("failed to create quality check: %w", err)
	}

	s.logger.Info("quality check created",
		zap.Int64("quality_check_id", check.ID),
		zap.String("check_type", check.CheckType),
		zap.Float64("overall_score", check.OverallScore))
	s.events.Publish(domain.ChangeEvent{Type: changeTypeQualityCheck, Action: domain.ChangeCreated, ID: check.ID})
	return s.GetByID(ctx, check.ID)
}

func (s *QualityCheckService) GetByID(ctx context.Context, id int64) (*domain.QualityCheckDTO, error) {
	check, err := s.checkRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrQualityCheckNotFound, "get quality check")
	}
	dto := mapper.ToQualityCheckDTO(check)
	return &dto, nil
}

func (s *QualityCheckService) Update(ctx context.Context, id int64, req *domain.QualityCheckRequest) (*domain.QualityCheckDTO, error) {
	check, err := s.checkRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrQualityCheckNotFound, "get quality check")
	}
	if err := s.refs.check(ctx, req.CustomerID, req.OrderID); err != nil {
		return nil, err
	}
	if err := applyQualityCheckRequest(check, req); err != nil {
		return nil, err
	}
	check.Customer = nil

	if err := s.checkRepo.Update(ctx, check); err != nil {
		return nil, fmt.Errorf("failed to update quality check: %w", err)
	}

	s.events.Publish(domain.ChangeEvent{Type: changeTypeQualityCheck, Action: domain.ChangeUpdated, ID: id})
	return s.GetByID(ctx, id)
}

func (s *QualityCheckService) UpdateStatus(ctx context.Context, id int64, status domain.QualityStatus) (*domain.QualityCheckDTO, error) {
	if !qualityStatuses[status] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	if _, err := s.checkRepo.GetByID(ctx, id); err != nil {
		return nil, notFound(err, ErrQualityCheckNotFound, "get quality check")
	}
	if err := s.checkRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update quality check status: %w", err)
	}

	s.events.Publish(domain.ChangeEvent{Type: changeTypeQualityCheck, Action: domain.ChangeUpdated, ID: id})
	return s.GetByID(ctx, id)
}

// Delete removes the check and then its stored photos. A photo that cannot
// be removed from storage is logged and left behind.
func (s *QualityCheckService) Delete(ctx context.Context, id int64) error {
	found, paths, err := s.checkRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete quality check: %w", err)
	}
	if !found {
		return ErrQualityCheckNotFound
	}

	for _, p := range paths {
		if err := s.files.Delete(ctx, p); err != nil {
			s.logger.Warn("failed to delete photo file", zap.String("key", p), zap.Error(err))
		}
	}

	s.events.Publish(domain.ChangeEvent{Type: changeTypeQualityCheck, Action: domain.ChangeDeleted, ID: id})
	return nil
}

func (s *QualityCheckService) List(ctx context.Context, filters repository.QualityCheckFilters, page repository.Page, sort repository.SortConfig) (*domain.QualityCheckListResponse, error) {
	checks, total, err := s.checkRepo.List(ctx, filters, page, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list quality checks: %w", err)
	}

	dtos := make([]domain.QualityCheckDTO, len(checks))
	for i := range checks {
		dtos[i] = mapper.ToQualityCheckDTO(&checks[i])
	}
	return &domain.QualityCheckListResponse{QualityChecks: dtos, Pagination: pagination(total, page)}, nil
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(decimal.NewFromFloat(v))
	}
	return sum.Div(decimal.NewFromInt(int64(len(values)))).Round(2).InexactFloat64()
}

// Statistics reports counts per status, average scores per check type,
// monthly average scores of the current year and the latest checks
func (s *QualityCheckService) Statistics(ctx context.Context) (*domain.QualityStatisticsDTO, error) {
	checks, err := s.checkRepo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load quality checks: %w", err)
	}

	stats := &domain.QualityStatisticsDTO{
		StatusCounts:    make(map[string]int64),
		AvgScoresByType: make(map[string]float64),
		MonthlyScores:   make([]domain.MonthlyScoreDTO, 12),
		RecentChecks:    []domain.QualityCheckDTO{},
	}

	year := s.clock().Year()
	byType := make(map[string][]float64)
	byMonth := make([][]float64, 12)
	for i := range checks {
		c := &checks[i]
		stats.StatusCounts[string(c.Status)]++
		byType[c.CheckType] = append(byType[c.CheckType], c.OverallScore)
		if c.CheckDate.Year() == year {
			m := int(c.CheckDate.Month()) - 1
			byMonth[m] = append(byMonth[m], c.OverallScore)
		}
		if i < recentCheckLimit {
			stats.RecentChecks = append(stats.RecentChecks, mapper.ToQualityCheckDTO(c))
		}
	}

	for checkType, scores := range byType {
		stats.AvgScoresByType[checkType] = average(scores)
	}
	for m, scores := range byMonth {
		stats.MonthlyScores[m] = domain.MonthlyScoreDTO{
			Month:        m + 1,
			AverageScore: average(scores),
			Count:        int64(len(scores)),
		}
	}
	return stats, nil
}

func (s *QualityCheckService) Standards() *domain.QualityStandardsResponse {
	return &domain.QualityStandardsResponse{Standards: s.catalog.QualityStandards}
}

// AddPhoto stores an image and attaches it to the check
func (s *QualityCheckService) AddPhoto(ctx context.Context, checkID int64, upload PhotoUpload) (*domain.QualityPhotoDTO, error) {
	if _, err := s.checkRepo.GetByID(ctx, checkID); err != nil {
		return nil, notFound(err, ErrQualityCheckNotFound, "get quality check")
	}
	if !photoContentTypes[upload.ContentType] {
		return nil, fmt.Errorf("%w: unsupported content type %q", ErrInvalidPhoto, upload.ContentType)
	}

	folder := "quality-checks/" + strconv.FormatInt(checkID, 10)
	key, size, err := s.files.Upload(ctx, folder, upload.Filename, upload.ContentType, upload.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}

	photo := &domain.QualityPhoto{
		QualityCheckID: checkID,
		Filename:       upload.Filename,
		ContentType:    upload.ContentType,
		Size:           size,
		StoragePath:    key,
		Caption:        upload.Caption,
	}
	if err := s.checkRepo.AddPhoto(ctx, photo); err != nil {
		if delErr := s.files.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to remove orphaned photo", zap.String("key", key), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to save photo: %w", err)
	}

	s.logger.Info("quality photo added",
		zap.Int64("quality_check_id", checkID),
		zap.Int64("photo_id", photo.ID),
		zap.Int64("size", size))
	s.events.Publish(domain.ChangeEvent{Type: changeTypeQualityCheck, Action: domain.ChangeUpdated, ID: checkID})

	dto := mapper.ToQualityPhotoDTO(photo)
	return &dto, nil
}

// OpenPhoto returns the photo record and a reader for its content. The
// caller closes the reader.
func (s *QualityCheckService) OpenPhoto(ctx context.Context, checkID, photoID int64) (*domain.QualityPhoto, io.ReadCloser, error) {
	if _, err := s.checkRepo.GetByID(ctx, checkID); err != nil {
		return nil, nil, notFound(err, ErrQualityCheckNotFound, "get quality check")
	}
	photo, err := s.checkRepo.GetPhoto(ctx, checkID, photoID)
	if err != nil {
		return nil, nil, notFound(err, ErrPhotoNotFound, "get photo")
	}

	body, err := s.files.Download(ctx, photo.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrPhotoNotFound
		}
		return nil, nil, fmt.Errorf("failed to read photo: %w", err)
	}
	return photo, body, nil
}
