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

const changeTypeCustomer = "customer"

type CustomerService struct {
	customerRepo *repository.CustomerRepository
	numbers      *NumberSequenceService
	events       ChangePublisher
	logger       *zap.Logger
}

func NewCustomerService(
	customerRepo *repository.CustomerRepository,
	numbers *NumberSequenceService,
	events ChangePublisher,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		numbers:      numbers,
		events:       publisherOrNop(events),
		logger:       logger,
	}
}

func applyCustomerRequest(customer *domain.Customer, req *domain.CustomerRequest) {
	customer.FirstName = req.FirstName
	customer.LastName = req.LastName
	customer.CompanyName = req.CompanyName
	customer.Email = req.Email
	customer.Phone = req.Phone
	customer.Mobile = req.Mobile
	customer.Street = req.Street
	customer.HouseNumber = req.HouseNumber
	customer.PostalCode = req.PostalCode
	customer.City = req.City
	customer.CustomerType = valueOr(req.CustomerType, domain.CustomerTypePrivate)
	customer.PreferredContactMethod = valueOr(req.PreferredContactMethod, domain.ContactMethodEmail)
	customer.Notes = req.Notes
	customer.IsActive = derefOr(req.IsActive, true)
}

func (s *CustomerService) Create(ctx context.Context, req *domain.CustomerRequest) (*domain.CustomerDTO, error) {
	if err := s.ensureEmailFree(ctx, req.Email, 0); err != nil {
		return nil, err
	}

	number, err := s.numbers.Next(ctx, PrefixCustomer)
	if err != nil {
		return nil, err
	}

	customer := &domain.Customer{CustomerNumber: number}
	applyCustomerRequest(customer, req)

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info("customer created",
		zap.Int64("customer_id", customer.ID),
		zap.String("customer_number", customer.CustomerNumber))
	s.events.Publish(domain.ChangeEvent{Type: changeTypeCustomer, Action: domain.ChangeCreated, ID: customer.ID})

	dto := mapper.ToCustomerDTO(customer)
	return &dto, nil
}

func (s *CustomerService) GetByID(ctx context.Context, id int64) (*domain.CustomerDTO, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCustomerNotFound, "get customer")
	}
	dto := mapper.ToCustomerDTO(customer)
	return &dto, nil
}

func (s *CustomerService) Update(ctx context.Context, id int64, req *domain.CustomerRequest) (*domain.CustomerDTO, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCustomerNotFound, "get customer")
	}
	if err := s.ensureEmailFree(ctx, req.Email, id); err != nil {
		return nil, err
	}

	applyCustomerRequest(customer, req)
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	s.events.Publish(domain.ChangeEvent{Type: changeTypeCustomer, Action: domain.ChangeUpdated, ID: id})
	dto := mapper.ToCustomerDTO(customer)
	return &dto, nil
}

// Delete deactivates the customer. Orders, invoices and history stay intact.
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	found, err := s.customerRepo.Deactivate(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if !found {
		return ErrCustomerNotFound
	}

	s.events.Publish(domain.ChangeEvent{Type: changeTypeCustomer, Action: domain.ChangeDeleted, ID: id})
	return nil
}

func (s *CustomerService) List(ctx context.Context, filters repository.CustomerFilters, page repository.Page, sort repository.SortConfig) (*domain.CustomerListResponse, error) {
	customers, total, err := s.customerRepo.List(ctx, filters, page, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	dtos := make([]domain.CustomerDTO, len(customers))
	for i := range customers {
		dtos[i] = mapper.ToCustomerDTO(&customers[i])
	}
	return &domain.CustomerListResponse{Customers: dtos, Pagination: pagination(total, page)}, nil
}

// SetPortalAccess sets or replaces the customer's portal password
func (s *CustomerService) SetPortalAccess(ctx context.Context, id int64, req *domain.PortalAccessRequest) (*domain.CustomerDTO, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCustomerNotFound, "get customer")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.SetPortalPassword(ctx, id, hash); err != nil {
		return nil, fmt.Errorf("failed to set portal password: %w", err)
	}
	customer.PortalPasswordHash = hash

	s.events.Publish(domain.ChangeEvent{Type: changeTypeCustomer, Action: domain.ChangeUpdated, ID: id})
	dto := mapper.ToCustomerDTO(customer)
	return &dto, nil
}

// Profile returns the customer of the portal session in ctx
func (s *CustomerService) Profile(ctx context.Context) (*domain.CustomerDTO, error) {
	id, err := portalCustomerID(ctx)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// UpdateProfile lets a portal customer change contact details and address
func (s *CustomerService) UpdateProfile(ctx context.Context, req *domain.PortalProfileRequest) (*domain.CustomerDTO, error) {
	id, err := portalCustomerID(ctx)
	if err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCustomerNotFound, "get customer")
	}

	customer.Phone = req.Phone
	customer.Mobile = req.Mobile
	customer.Street = req.Street
	customer.HouseNumber = req.HouseNumber
	customer.PostalCode = req.PostalCode
	customer.City = req.City
	customer.PreferredContactMethod = valueOr(req.PreferredContactMethod, customer.PreferredContactMethod)

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.events.Publish(domain.ChangeEvent{Type: changeTypeCustomer, Action: domain.ChangeUpdated, ID: id})
	dto := mapper.ToCustomerDTO(customer)
	return &dto, nil
}

func (s *CustomerService) ensureEmailFree(ctx context.Context, email string, excludeID int64) error {
	taken, err := s.customerRepo.EmailTaken(ctx, email, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return ErrDuplicateEmail
	}
	return nil
}

// portalCustomerID is the customer a portal session acts for
func portalCustomerID(ctx context.Context) (int64, error) {
	user, ok := auth.FromContext(ctx)
	if !ok || user.Role != domain.RoleCustomer || user.CustomerID == nil {
		return 0, ErrUnauthorized
	}
	return *user.CustomerID, nil
}
