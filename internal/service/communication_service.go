package service

import (
	"context"
	"fmt"

	"github.com/glanzwerk/crm/internal/auth"
	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/mapper"
	"github.com/glanzwerk/crm/internal/repository"
	"go.uber.org/zap"
)

const changeTypeCommunication = "communication"

type CommunicationService struct {
	commRepo *repository.CommunicationRepository
	refs     referenceChecker
	events   ChangePublisher
	clock    Clock
	logger   *zap.Logger
}

func NewCommunicationService(
	commRepo *repository.CommunicationRepository,
	customerRepo *repository.CustomerRepository,
	orderRepo *repository.OrderRepository,
	events ChangePublisher,
	clock Clock,
	logger *zap.Logger,
) *CommunicationService {
	return &CommunicationService{
		commRepo: commRepo,
		refs:     referenceChecker{customers: customerRepo, orders: orderRepo},
		events:   publisherOrNop(events),
		clock:    clockOrNow(clock),
		logger:   logger,
	}
}

// actorName is the display name stored in created_by
func actorName(ctx context.Context) string {
	if user, ok := auth.FromContext(ctx); ok {
		return user.DisplayName
	}
	return ""
}

func (s *CommunicationService) applyRequest(comm *domain.Communication, req *domain.CommunicationRequest) error {
	date, err := parseTimestamp(req.CommunicationDate)
	if err != nil {
		return err
	}
	followUp, err := parseDate(req.FollowUpDate)
	if err != nil {
		return err
	}

	switch {
	case date != nil:
		comm.CommunicationDate = *date
	case comm.CommunicationDate.IsZero():
		comm.CommunicationDate = s.clock()
	}

	comm.CustomerID = *req.CustomerID
	comm.OrderID = req.OrderID
	comm.Type = req.Type
	comm.Direction = valueOr(req.Direction, domain.DirectionOutbound)
	comm.Subject = req.Subject
	comm.Content = req.Content
	comm.ContactPerson = req.ContactPerson
	comm.ContactMethod = req.ContactMethod
	comm.Status = valueOr(req.Status, domain.CommunicationStatusCompleted)
	comm.FollowUpDate = followUp
	comm.FollowUpCompleted = req.FollowUpCompleted
	comm.Tags = req.Tags
	comm.IsImportant = req.IsImportant
	return nil
}

func (s *CommunicationService) Create(ctx context.Context, req *domain.CommunicationRequest) (*domain.CommunicationDTO, error) {
	if err := s.refs.check(ctx, req.CustomerID, req.OrderID); err != nil {
		return nil, err
	}

	comm := &domain.Communication{CreatedBy: actorName(ctx)}
	if err := s.applyRequest(comm, req); err != nil {
		return nil, err
	}
	return s.create(ctx, comm)
}

func (s *CommunicationService) create(ctx context.Context, comm *domain.Communication) (*domain.CommunicationDTO, error) {
	if err := s.commRepo.Create(ctx, comm); err != nil {
		return nil, fmt.Errorf("failed to create communication: %w", err)
	}

	s.logger.Info("communication logged",
		zap.Int64("communication_id", comm.ID),
		zap.Int64("customer_id", comm.CustomerID),
		zap.String("type", string(comm.Type)))
	s.events.Publish(domain.ChangeEvent{Type: changeTypeCommunication, Action: domain.ChangeCreated, ID: comm.ID})
	return s.GetByID(ctx, comm.ID)
}

func (s *CommunicationService) GetByID(ctx context.Context, id int64) (*domain.CommunicationDTO, error) {
	comm, err := s.commRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCommunicationNotFound, "get communication")
	}
	dto := mapper.ToCommunicationDTO(comm)
	return &dto, nil
}

func (s *CommunicationService) Update(ctx context.Context, id int64, req *domain.CommunicationRequest) (*domain.CommunicationDTO, error) {
	comm, err := s.commRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCommunicationNotFound, "get communication")
	}
	if err := s.refs.check(ctx, req.CustomerID, req.OrderID); err != nil {
		return nil, err
	}
	if err := s.applyRequest(comm, req); err != nil {
		return nil, err
	}
	comm.Customer = nil

	if err := s.commRepo.Update(ctx, comm); err != nil {
		return nil, fmt.Errorf("failed to update communication: %w", err)
	}

	s.events.Publish(domain.ChangeEvent{Type: changeTypeCommunication, Action: domain.ChangeUpdated, ID: id})
	return s.GetByID(ctx, id)
}

func (s *CommunicationService) Delete(ctx context.Context, id int64) error {
	found, err := s.commRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete communication: %w", err)
	}
	if !found {
		return ErrCommunicationNotFound
	}
	s.events.Publish(domain.ChangeEvent{Type: changeTypeCommunication, Action: domain.ChangeDeleted, ID: id})
	return nil
}

func (s *CommunicationService) List(ctx context.Context, filters repository.CommunicationFilters, page repository.Page, sort repository.SortConfig) (*domain.CommunicationListResponse, error) {
	comms, total, err := s.commRepo.List(ctx, filters, page, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list communications: %w", err)
	}

	dtos := make([]domain.CommunicationDTO, len(comms))
	for i := range comms {
		dtos[i] = mapper.ToCommunicationDTO(&comms[i])
	}
	return &domain.CommunicationListResponse{Communications: dtos, Pagination: pagination(total, page)}, nil
}

// SendPortalMessage records a message a customer wrote in the portal. It is
// logged as an inbound email awaiting an answer.
func (s *CommunicationService) SendPortalMessage(ctx context.Context, req *domain.PortalMessageRequest) (*domain.CommunicationDTO, error) {
	customerID, err := portalCustomerID(ctx)
	if err != nil {
		return nil, err
	}
	if req.OrderID != nil {
		// the scoped lookup hides other customers' orders
		if err := s.refs.check(ctx, nil, req.OrderID); err != nil {
			return nil, err
		}
	}

	comm := &domain.Communication{
		CustomerID:        customerID,
		OrderID:           req.OrderID,
		Type:              domain.CommunicationEmail,
		Direction:         domain.DirectionInbound,
		Subject:           req.Subject,
		Content:           req.Content,
		ContactPerson:     actorName(ctx),
		ContactMethod:     "portal",
		Status:            domain.CommunicationStatusPending,
		CommunicationDate: s.clock(),
		CreatedBy:         actorName(ctx),
	}
	return s.create(ctx, comm)
}
