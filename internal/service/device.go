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

// DeviceService implements the device use cases
type DeviceService struct {
	tx         Transactor
	repo       repository.DeviceRepository
	mapper     mapper.DeviceMapper
	maxDevices int
	log        *zap.Logger
}

// NewDeviceService creates a DeviceService allowing at most maxDevices per customer
func NewDeviceService(tx Transactor, repo repository.DeviceRepository, m mapper.DeviceMapper, maxDevices int, log *zap.Logger) *DeviceService {
	return &DeviceService{tx: tx, repo: repo, mapper: m, maxDevices: maxDevices, log: log.Named("devices")}
}

// MaxDevicesPerCustomer is the configured device limit
func (s *DeviceService) MaxDevicesPerCustomer() int {
	return s.maxDevices
}

// Create stores a new device and returns its generated ID. The owner's device
// count is checked before the owner is resolved.
func (s *DeviceService) Create(ctx context.Context, req *dto.CreateDeviceRequest) (uuid.UUID, error) {
	if req == nil {
		return uuid.Nil, apperror.InvalidArgument("request", "is nil")
	}
	customerID, err := validation.ParseID("customerId", req.CustomerID)
	if err != nil {
		return uuid.Nil, err
	}
	if err := checkDeviceFields(req.Status, req.Color); err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		count, err := s.repo.CountByCustomerID(ctx, customerID)
		if err != nil {
			return err
		}
		if count >= s.maxDevices {
			s.log.Debug("device limit reached",
				zap.Stringer("customerId", customerID),
				zap.Int("count", count),
				zap.Int("limit", s.maxDevices))
			return &apperror.DeviceLimitReachedError{Limit: s.maxDevices, CustomerID: customerID}
		}

		device, err := s.mapper.ToNewEntity(ctx, req)
		if err != nil {
			return err
		}
		saved, err := s.repo.Save(ctx, device)
		if err != nil {
			return fmt.Errorf("failed to save device: %w", err)
		}
		id = saved.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.log.Debug("device created", zap.Stringer("id", id), zap.Stringer("customerId", customerID))
	return id, nil
}

// Read returns a single device
func (s *DeviceService) Read(ctx context.Context, id string) (*dto.ReadDeviceResponse, error) {
	deviceID, err := validation.ParseID("id", id)
	if err != nil {
		return nil, err
	}

	var resp *dto.ReadDeviceResponse
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		device, err := s.find(ctx, deviceID)
		if err != nil {
			return err
		}
		resp, err = s.mapper.ToDto(&device)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Update changes the status and color of a device
func (s *DeviceService) Update(ctx context.Context, id string, req *dto.UpdateDeviceRequest) error {
	deviceID, err := validation.ParseID("id", id)
	if err != nil {
		return err
	}
	if req == nil {
		return apperror.InvalidArgument("request", "is nil")
	}
	if err := checkDeviceFields(req.Status, req.Color); err != nil {
		return err
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		device, err := s.find(ctx, deviceID)
		if err != nil {
			return err
		}
		if err := s.mapper.ToEntity(req, &device); err != nil {
			return err
		}
		if _, err := s.repo.Save(ctx, device); err != nil {
			return s.notFound(err, deviceID)
		}
		return nil
	})
}

// Delete removes a device
func (s *DeviceService) Delete(ctx context.Context, id string) error {
	deviceID, err := validation.ParseID("id", id)
	if err != nil {
		return err
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		device, err := s.find(ctx, deviceID)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, device); err != nil {
			return s.notFound(err, deviceID)
		}
		s.log.Debug("device deleted", zap.Stringer("id", deviceID))
		return nil
	})
}

// Exists reports whether a device exists without loading it
func (s *DeviceService) Exists(ctx context.Context, id string) (bool, error) {
	deviceID, err := validation.ParseID("id", id)
	if err != nil {
		return false, err
	}

	var exists bool
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err = s.repo.ExistsByID(ctx, deviceID)
		return err
	})
	return exists, err
}

// checkDeviceFields rejects a bad status or color before any repository call
func checkDeviceFields(status, color string) error {
	if _, err := validation.NormalizeStatus(status); err != nil {
		return err
	}
	_, err := validation.NormalizeColor(color)
	return err
}

func (s *DeviceService) find(ctx context.Context, id uuid.UUID) (domain.Device, error) {
	device, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Device{}, s.notFound(err, id)
	}
	return device, nil
}

func (s *DeviceService) notFound(err error, id uuid.UUID) error {
	return translateNotFound(err, func() error {
		s.log.Debug("device not found", zap.Stringer("id", id))
		return apperror.DeviceNotFound(id)
	})
}
