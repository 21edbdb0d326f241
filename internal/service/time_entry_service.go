package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/glanzwerk/crm/internal/auth"
	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/mapper"
	"github.com/glanzwerk/crm/internal/repository"
	"go.uber.org/zap"
)

const (
	changeTypeTimeEntry = "time_entry"

	recentTimeEntryLimit = 5
	clockLayout          = "15:04"
)

type TimeEntryService struct {
	entryRepo *repository.TimeEntryRepository
	refs      referenceChecker
	events    ChangePublisher
	clock     Clock
	logger    *zap.Logger
}

func NewTimeEntryService(
	entryRepo *repository.TimeEntryRepository,
	customerRepo *repository.CustomerRepository,
	orderRepo *repository.OrderRepository,
	events ChangePublisher,
	clock Clock,
	logger *zap.Logger,
) *TimeEntryService {
	return &TimeEntryService{
		entryRepo: entryRepo,
		refs:      referenceChecker{customers: customerRepo, orders: orderRepo},
		events:    publisherOrNop(events),
		clock:     clockOrNow(clock),
		logger:    logger,
	}
}

// Duration is the length of [start, end] in hours rounded to two places
func Duration(start, end time.Time) float64 {
	return domain.RoundHours(end.Sub(start).Hours())
}

// staffUser returns the staff member logging time
func staffUser(ctx context.Context) (*auth.UserContext, error) {
	user, ok := auth.FromContext(ctx)
	if !ok || user.UserID == 0 {
		return nil, ErrUserContextRequired
	}
	return user, nil
}

func applyTimeEntryRequest(entry *domain.TimeEntry, req *domain.TimeEntryRequest) error {
	start, err := parseTimestamp(req.StartTime)
	if err != nil {
		return err
	}
	if start == nil {
		return fmt.Errorf("%w: start_time is required", ErrInvalidInput)
	}
	end, err := parseTimestamp(req.EndTime)
	if err != nil {
		return err
	}

	entry.Duration = nil
	if end != nil {
		if end.Before(*start) {
			return ErrInvalidTimeRange
		}
		d := Duration(*start, *end)
		entry.Duration = &d
	}

	entry.CustomerID = req.CustomerID
	entry.OrderID = req.OrderID
	entry.StartTime = *start
	entry.EndTime = end
	entry.Description = req.Description
	entry.ActivityType = valueOr(req.ActivityType, domain.ActivityWork)
	entry.Status = valueOr(req.Status, domain.TimeEntryCompleted)
	entry.Notes = req.Notes
	return nil
}

// Create logs time for the session user. user_id and user_name never come from the body.
func (s *TimeEntryService) Create(ctx context.Context, req *domain.TimeEntryRequest) (*domain.TimeEntryDTO, error) {
	user, err := staffUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.refs.check(ctx, req.CustomerID, req.OrderID); err != nil {
		return nil, err
	}

	entry := &domain.TimeEntry{UserID: user.UserID, UserName: user.DisplayName}
	if err := applyTimeEntryRequest(entry, req); err != nil {
		return nil, err
	}
	return s.create(ctx, entry)
}

func (s *TimeEntryService) create(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntryDTO, error) {
	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create time entry: %w", err)
	}

	s.logger.Info("time entry created",
		zap.Int64("time_entry_id", entry.ID),
		zap.Int64("user_id", entry.UserID),
		zap.String("status", string(entry.Status)))
	s.events.Publish(domain.ChangeEvent{Type: changeTypeTimeEntry, Action: domain.ChangeCreated, ID: entry.ID})
	return s.GetByID(ctx, entry.ID)
}

// Start opens an active entry beginning now
func (s *TimeEntryService) Start(ctx context.Context, req *domain.StartTimerRequest) (*domain.TimeEntryDTO, error) {
	user, err := staffUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.refs.check(ctx, req.CustomerID, req.OrderID); err != nil {
		return nil, err
	}

	entry := &domain.TimeEntry{
		UserID:       user.UserID,
		UserName:     user.DisplayName,
		CustomerID:   req.CustomerID,
		OrderID:      req.OrderID,
		StartTime:    s.clock(),
		Description:  req.Description,
		ActivityType: valueOr(req.ActivityType, domain.ActivityWork),
		Status:       domain.TimeEntryActive,
	}
	return s.create(ctx, entry)
}

// Stop ends a running entry. Only active entries without an end time can stop.
func (s *TimeEntryService) Stop(ctx context.Context, id int64) (*domain.TimeEntryDTO, error) {
	entry, err := s.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrTimeEntryNotFound, "get time entry")
	}
	if entry.Status != domain.TimeEntryActive || entry.EndTime != nil {
		return nil, ErrTimeEntryNotActive
	}

	end := s.clock()
	if end.Before(entry.StartTime) {
		end = entry.StartTime
	}
	d := Duration(entry.StartTime, end)

	stopped, err := s.entryRepo.Stop(ctx, id, end, d)
	if err != nil {
		return nil, fmt.Errorf("failed to stop time entry: %w", err)
	}
	if !stopped {
		return nil, ErrTimeEntryNotActive
	}

	s.logger.Info("timer stopped", zap.Int64("time_entry_id", id), zap.Float64("duration", d))
	s.events.Publish(domain.ChangeEvent{Type: changeTypeTimeEntry, Action: domain.ChangeUpdated, ID: id})
	return s.GetByID(ctx, id)
}

func (s *TimeEntryService) GetByID(ctx context.Context, id int64) (*domain.TimeEntryDTO, error) {
	entry, err := s.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrTimeEntryNotFound, "get time entry")
	}
	dto := mapper.ToTimeEntryDTO(entry)
	return &dto, nil
}

// Update keeps the original owner of the entry
func (s *TimeEntryService) Update(ctx context.Context, id int64, req *domain.TimeEntryRequest) (*domain.TimeEntryDTO, error) {
	entry, err := s.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrTimeEntryNotFound, "get time entry")
	}
	if err := s.refs.check(ctx, req.CustomerID, req.OrderID); err != nil {
		return nil, err
	}
	if err := applyTimeEntryRequest(entry, req); err != nil {
		return nil, err
	}
	entry.Customer = nil

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to update time entry: %w", err)
	}

	s.events.Publish(domain.ChangeEvent{Type: changeTypeTimeEntry, Action: domain.ChangeUpdated, ID: id})
	return s.GetByID(ctx, id)
}

func (s *TimeEntryService) Delete(ctx context.Context, id int64) error {
	found, err := s.entryRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete time entry: %w", err)
	}
	if !found {
		return ErrTimeEntryNotFound
	}
	s.events.Publish(domain.ChangeEvent{Type: changeTypeTimeEntry, Action: domain.ChangeDeleted, ID: id})
	return nil
}

func (s *TimeEntryService) List(ctx context.Context, filters repository.TimeEntryFilters, page repository.Page, sort repository.SortConfig) (*domain.TimeEntryListResponse, error) {
	entries, total, err := s.entryRepo.List(ctx, filters, page, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}

	dtos := make([]domain.TimeEntryDTO, len(entries))
	for i := range entries {
		dtos[i] = mapper.ToTimeEntryDTO(&entries[i])
	}
	return &domain.TimeEntryListResponse{TimeEntries: dtos, Pagination: pagination(total, page)}, nil
}

// hours is the logged duration of a completed entry
func hours(e *domain.TimeEntry) float64 {
	if e.Duration != nil {
		return *e.Duration
	}
	if e.EndTime != nil {
		return Duration(e.StartTime, *e.EndTime)
	}
	return 0
}

// Statistics reports hours per user for the current month, hours per
// activity type, running timers and the latest entries
func (s *TimeEntryService) Statistics(ctx context.Context) (*domain.TimeStatisticsDTO, error) {
	now := s.clock()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	monthly, err := s.entryRepo.Find(ctx, repository.TimeEntryFilters{
		Status: domain.TimeEntryCompleted,
		From:   &monthStart,
		To:     &monthEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load time entries: %w", err)
	}

	perUser := make(map[int64]*domain.UserHoursDTO)
	var userOrder []int64
	for i := range monthly {
		e := &monthly[i]
		u, ok := perUser[e.UserID]
		if !ok {
			u = &domain.UserHoursDTO{UserID: e.UserID, UserName: e.UserName}
			perUser[e.UserID] = u
			userOrder = append(userOrder, e.UserID)
		}
		u.Hours += hours(e)
	}

	completed, err := s.entryRepo.Find(ctx, repository.TimeEntryFilters{Status: domain.TimeEntryCompleted})
	if err != nil {
		return nil, fmt.Errorf("failed to load time entries: %w", err)
	}
	activity := make(map[string]float64)
	for i := range completed {
		activity[string(completed[i].ActivityType)] += hours(&completed[i])
	}
	for k, v := range activity {
		activity[k] = domain.RoundHours(v)
	}

	active, err := s.entryRepo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count active timers: %w", err)
	}

	recent, err := s.entryRepo.Recent(ctx, recentTimeEntryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent time entries: %w", err)
	}

	stats := &domain.TimeStatisticsDTO{
		UserHours:     make([]domain.UserHoursDTO, 0, len(userOrder)),
		ActivityHours: activity,
		ActiveEntries: active,
		RecentEntries: make([]domain.TimeEntryDTO, len(recent)),
	}
	for _, id := range userOrder {
		u := perUser[id]
		u.Hours = domain.RoundHours(u.Hours)
		stats.UserHours = append(stats.UserHours, *u)
	}
	sort.SliceStable(stats.UserHours, func(i, j int) bool {
		return stats.UserHours[i].Hours > stats.UserHours[j].Hours
	})
	for i := range recent {
		stats.RecentEntries[i] = mapper.ToTimeEntryDTO(&recent[i])
	}
	return stats, nil
}

// Report lists the completed entries that started within [dateFrom, dateTo]
// (both inclusive calendar days), optionally for one user
func (s *TimeEntryService) Report(ctx context.Context, dateFrom, dateTo string, userID *int64) (*domain.TimeReportDTO, error) {
	from, err := parseDate(dateFrom)
	if err != nil {
		return nil, err
	}
	to, err := parseDate(dateTo)
	if err != nil {
		return nil, err
	}
	if from == nil || to == nil {
		return nil, fmt.Errorf("%w: date_from and date_to are required", ErrInvalidInput)
	}
	if to.Before(*from) {
		return nil, ErrInvalidTimeRange
	}
	end := to.AddDate(0, 0, 1)

	entries, err := s.entryRepo.Find(ctx, repository.TimeEntryFilters{
		Status: domain.TimeEntryCompleted,
		UserID: userID,
		From:   from,
		To:     &end,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load time entries: %w", err)
	}

	report := &domain.TimeReportDTO{
		ReportData: make([]domain.TimeReportRowDTO, 0, len(entries)),
		Period:     domain.ReportPeriodDTO{DateFrom: dateFrom, DateTo: dateTo},
	}
	var total float64
	for i := range entries {
		e := &entries[i]
		h := hours(e)
		total += h

		row := domain.TimeReportRowDTO{
			ID:           e.ID,
			Date:         e.StartTime.UTC().Format(dateLayout),
			UserID:       e.UserID,
			UserName:     e.UserName,
			ActivityType: e.ActivityType,
			StartTime:    e.StartTime.UTC().Format(clockLayout),
			Duration:     h,
			Description:  e.Description,
		}
		if e.EndTime != nil {
			row.EndTime = e.EndTime.UTC().Format(clockLayout)
		}
		if e.Customer != nil {
			row.CustomerName = e.Customer.DisplayName()
		}
		report.ReportData = append(report.ReportData, row)
	}
	report.TotalHours = domain.RoundHours(total)
	return report, nil
}
