package service

import (
	"context"
	"fmt"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/mapper"
	"github.com/glanzwerk/crm/internal/repository"
	"go.uber.org/zap"
)

const changeTypeOrder = "order"

var orderStatuses = map[domain.OrderStatus]bool{
	domain.OrderStatusPending:    true,
	domain.OrderStatusConfirmed:  true,
	domain.OrderStatusInProgress: true,
	domain.OrderStatusCompleted:  true,
	domain.OrderStatusCancelled:  true,
}

type OrderService struct {
	orderRepo    *repository.OrderRepository
	customerRepo *repository.CustomerRepository
	numbers      *NumberSequenceService
	refs         referenceChecker
	events       ChangePublisher
	clock        Clock
	logger       *zap.Logger
}

func NewOrderService(
	orderRepo *repository.OrderRepository,
	customerRepo *repository.CustomerRepository,
	numbers *NumberSequenceService,
	events ChangePublisher,
	clock Clock,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		numbers:      numbers,
		refs:         referenceChecker{customers: customerRepo},
		events:       publisherOrNop(events),
		clock:        clockOrNow(clock),
		logger:       logger,
	}
}

func (s *OrderService) applyRequest(order *domain.Order, req *domain.OrderRequest) error {
	scheduled, err := parseDate(req.ScheduledDate)
	if err != nil {
		return err
	}

	order.CustomerID = *req.CustomerID
	order.Title = req.Title
	order.Description = req.Description
	order.ServiceType = req.ServiceType
	order.ServiceAddress = domain.ServiceAddress{
		ServiceStreet:      req.ServiceStreet,
		ServiceHouseNumber: req.ServiceHouseNumber,
		ServicePostalCode:  req.ServicePostalCode,
		ServiceCity:        req.ServiceCity,
	}
	order.ScheduledDate = scheduled
	order.ScheduledTime = req.ScheduledTime
	order.EstimatedDuration = req.EstimatedDuration
	order.EstimatedPrice = req.EstimatedPrice
	order.FinalPrice = req.FinalPrice
	order.Priority = valueOr(req.Priority, domain.PriorityNormal)
	order.SpecialInstructions = req.SpecialInstructions
	order.AccessInstructions = req.AccessInstructions

	status := valueOr(req.Status, valueOr(order.Status, domain.OrderStatusPending))
	s.setStatus(order, status)
	return nil
}

// setStatus records completion time the first time an order completes
func (s *OrderService) setStatus(order *domain.Order, status domain.OrderStatus) {
	if status == domain.OrderStatusCompleted && order.CompletedAt == nil {
		now := s.clock()
		order.CompletedAt = &now
	}
	order.Status = status
}

func (s *OrderService) Create(ctx context.Context, req *domain.OrderRequest) (*domain.OrderDTO, error) {
	if err := s.refs.check(ctx, req.CustomerID, nil); err != nil {
		return nil, err
	}

	order := &domain.Order{}
	if err := s.applyRequest(order, req); err != nil {
		return nil, err
	}

	number, err := s.numbers.Next(ctx, PrefixOrder)
	if err != nil {
		return nil, err
	}
	order.OrderNumber = number

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info("order created", zap.Int64("order_id", order.ID), zap.String("order_number", number))
	s.events.Publish(domain.ChangeEvent{Type: changeTypeOrder, Action: domain.ChangeCreated, ID: order.ID})
	return s.GetByID(ctx, order.ID)
}

func (s *OrderService) GetByID(ctx context.Context, id int64) (*domain.OrderDTO, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrOrderNotFound, "get order")
	}
	dto := mapper.ToOrderDTO(order)
	return &dto, nil
}

func (s *OrderService) Update(ctx context.Context, id int64, req *domain.OrderRequest) (*domain.OrderDTO, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrOrderNotFound, "get order")
	}
	if err := s.refs.check(ctx, req.CustomerID, nil); err != nil {
		return nil, err
	}
	if err := s.applyRequest(order, req); err != nil {
		return nil, err
	}
	order.Customer = nil

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	s.events.Publish(domain.ChangeEvent{Type: changeTypeOrder, Action: domain.ChangeUpdated, ID: id})
	return s.GetByID(ctx, id)
}

// UpdateStatus moves an order to any known status. Completing sets completed_at.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.OrderDTO, error) {
	if !orderStatuses[status] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrOrderNotFound, "get order")
	}

	s.setStatus(order, status)
	if err := s.orderRepo.UpdateStatus(ctx, id, order.Status, order.CompletedAt); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.events.Publish(domain.ChangeEvent{Type: changeTypeOrder, Action: domain.ChangeUpdated, ID: id})
	return s.GetByID(ctx, id)
}

func (s *OrderService) Delete(ctx context.Context, id int64) error {
	found, err := s.orderRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if !found {
		return ErrOrderNotFound
	}
	s.events.Publish(domain.ChangeEvent{Type: changeTypeOrder, Action: domain.ChangeDeleted, ID: id})
	return nil
}

func (s *OrderService) List(ctx context.Context, filters repository.OrderFilters, page repository.Page, sort repository.SortConfig) (*domain.OrderListResponse, error) {
	orders, total, err := s.orderRepo.List(ctx, filters, page, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	dtos := make([]domain.OrderDTO, len(orders))
	for i := range orders {
		dtos[i] = mapper.ToOrderDTO(&orders[i])
	}
	return &domain.OrderListResponse{Orders: dtos, Pagination: pagination(total, page)}, nil
}

// Dashboard counts orders per status, orders scheduled today and in the
// current week (Monday to Sunday), and active customers
func (s *OrderService) Dashboard(ctx context.Context) (*domain.OrderDashboardDTO, error) {
	counts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	today := startOfDay(s.clock())
	todays, err := s.orderRepo.CountScheduledBetween(ctx, today, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to count today's orders: %w", err)
	}

	weekday := (int(today.Weekday()) + 6) % 7 // Monday = 0
	weekStart := today.AddDate(0, 0, -weekday)
	thisWeek, err := s.orderRepo.CountScheduledBetween(ctx, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		return nil, fmt.Errorf("failed to count this week's orders: %w", err)
	}

	customers, err := s.customerRepo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	return &domain.OrderDashboardDTO{
		PendingOrders:    counts[domain.OrderStatusPending],
		ConfirmedOrders:  counts[domain.OrderStatusConfirmed],
		InProgressOrders: counts[domain.OrderStatusInProgress],
		CompletedOrders:  counts[domain.OrderStatusCompleted],
		TodaysOrders:     todays,
		ThisWeekOrders:   thisWeek,
		TotalCustomers:   customers,
	}, nil
}
