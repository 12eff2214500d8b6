package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jbweber/homelab/customercare/internal/apperror"
	"github.com/jbweber/homelab/customercare/internal/domain"
	"github.com/jbweber/homelab/customercare/internal/dto"
	"github.com/jbweber/homelab/customercare/internal/mapper"
	"github.com/jbweber/homelab/customercare/internal/repository"
	"github.com/jbweber/homelab/customercare/internal/validation"
)

// CustomerService implements the customer use cases
type CustomerService struct {
	tx     Transactor
	repo   repository.CustomerRepository
	mapper mapper.CustomerMapper
	log    *zap.Logger
}

// NewCustomerService creates a CustomerService
func NewCustomerService(tx Transactor, repo repository.CustomerRepository, m mapper.CustomerMapper, log *zap.Logger) *CustomerService {
	return &CustomerService{tx: tx, repo: repo, mapper: m, log: log.Named("customers")}
}

// Create stores a new customer and returns its generated ID
func (s *CustomerService) Create(ctx context.Context, req *dto.CreateCustomerRequest) (uuid.UUID, error) {
	if req == nil {
		return uuid.Nil, apperror.InvalidArgument("request", "is nil")
	}

	var id uuid.UUID
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		customer, err := s.mapper.ToNewEntity(req)
		if err != nil {
			return err
		}
		saved, err := s.repo.Save(ctx, customer)
		if err != nil {
			return fmt.Errorf("failed to save customer: %w", err)
		}
		id = saved.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.log.Debug("customer created", zap.Stringer("id", id))
	return id, nil
}

// Read returns a customer together with its devices
func (s *CustomerService) Read(ctx context.Context, id string) (*dto.ReadCustomerResponse, error) {
	customerID, err := validation.ParseID("id", id)
	if err != nil {
		return nil, err
	}

	var resp *dto.ReadCustomerResponse
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		customer, err := s.repo.FindByIDWithDevices(ctx, customerID)
		if err != nil {
			return s.notFound(err, customerID)
		}
		resp, err = s.mapper.ToDto(&customer)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Update changes the mutable fields of a customer
func (s *CustomerService) Update(ctx context.Context, id string, req *dto.UpdateCustomerRequest) error {
	customerID, err := validation.ParseID("id", id)
	if err != nil {
		return err
	}
	if req == nil {
		return apperror.InvalidArgument("request", "is nil")
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		customer, err := s.find(ctx, customerID)
		if err != nil {
			return err
		}
		if err := s.mapper.ToEntity(req, &customer); err != nil {
			return err
		}
		if _, err := s.repo.Save(ctx, customer); err != nil {
			return s.notFound(err, customerID)
		}
		return nil
	})
}

// Delete removes a customer and, through the schema, its devices
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	customerID, err := validation.ParseID("id", id)
	if err != nil {
		return err
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		customer, err := s.find(ctx, customerID)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, customer); err != nil {
			return s.notFound(err, customerID)
		}
		s.log.Debug("customer deleted", zap.Stringer("id", customerID))
		return nil
	})
}

func (s *CustomerService) find(ctx context.Context, id uuid.UUID) (domain.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Customer{}, s.notFound(err, id)
	}
	return customer, nil
}

func (s *CustomerService) notFound(err error, id uuid.UUID) error {
	return translateNotFound(err, func() error {
		s.log.Debug("customer not found", zap.Stringer("id", id))
		return apperror.CustomerNotFound(id)
	})
}
