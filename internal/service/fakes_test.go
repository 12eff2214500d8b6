package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jbweber/homelab/customercare/internal/domain"
	"github.com/jbweber/homelab/customercare/internal/dto"
	"github.com/jbweber/homelab/customercare/internal/mapper"
	"github.com/jbweber/homelab/customercare/internal/repository"
)

type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeCustomerRepo struct {
	customers map[uuid.UUID]domain.Customer
	err       error
	saves     int
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: map[uuid.UUID]domain.Customer{}}
}

func (f *fakeCustomerRepo) Save(_ context.Context, c domain.Customer) (domain.Customer, error) {
	if f.err != nil {
		return domain.Customer{}, f.err
	}
	f.saves++
	if c.IsNew() {
		c.ID = uuid.New()
	}
	f.customers[c.ID] = c
	return c, nil
}

func (f *fakeCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (domain.Customer, error) {
	if f.err != nil {
		return domain.Customer{}, f.err
	}
	c, ok := f.customers[id]
	if !ok {
		return domain.Customer{}, fmt.Errorf("customer with ID %s: %w", id, repository.ErrNotFound)
	}
	return c, nil
}

func (f *fakeCustomerRepo) FindByIDWithDevices(ctx context.Context, id uuid.UUID) (domain.Customer, error) {
	c, err := f.FindByID(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if c.Devices == nil {
		c.Devices = []domain.Device{}
	}
	return c, nil
}

func (f *fakeCustomerRepo) Delete(_ context.Context, c domain.Customer) error {
	if _, ok := f.customers[c.ID]; !ok {
		return repository.ErrNotFound
	}
	delete(f.customers, c.ID)
	return nil
}

func (f *fakeCustomerRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.customers[id]
	return ok, f.err
}

type fakeDeviceRepo struct {
	devices    map[uuid.UUID]domain.Device
	counts     map[uuid.UUID]int
	err        error
	saves      int
	countCalls int
	finds      int
}

func newFakeDeviceRepo() *fakeDeviceRepo {
	return &fakeDeviceRepo{devices: map[uuid.UUID]domain.Device{}, counts: map[uuid.UUID]int{}}
}

func (f *fakeDeviceRepo) Save(_ context.Context, d domain.Device) (domain.Device, error) {
	if f.err != nil {
		return domain.Device{}, f.err
	}
	f.saves++
	if d.IsNew() {
		d.ID = uuid.New()
		f.counts[d.CustomerID]++
	}
	f.devices[d.ID] = d
	return d, nil
}

func (f *fakeDeviceRepo) FindByID(_ context.Context, id uuid.UUID) (domain.Device, error) {
	f.finds++
	if f.err != nil {
		return domain.Device{}, f.err
	}
	d, ok := f.devices[id]
	if !ok {
		return domain.Device{}, fmt.Errorf("device with ID %s: %w", id, repository.ErrNotFound)
	}
	return d, nil
}

func (f *fakeDeviceRepo) CountByCustomerID(_ context.Context, customerID uuid.UUID) (int, error) {
	f.countCalls++
	return f.counts[customerID], f.err
}

func (f *fakeDeviceRepo) Delete(_ context.Context, d domain.Device) error {
	if _, ok := f.devices[d.ID]; !ok {
		return repository.ErrNotFound
	}
	delete(f.devices, d.ID)
	f.counts[d.CustomerID]--
	return nil
}

func (f *fakeDeviceRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.devices[id]
	return ok, f.err
}

// countingDeviceMapper records whether the service reached the mapper
type countingDeviceMapper struct {
	mapper.DeviceMapper
	newEntityCalls int
}

func (m *countingDeviceMapper) ToNewEntity(ctx context.Context, req *dto.CreateDeviceRequest) (domain.Device, error) {
	m.newEntityCalls++
	return m.DeviceMapper.ToNewEntity(ctx, req)
}
