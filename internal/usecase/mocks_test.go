package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/acompanythatsellseverything/BOAK-backend/internal/entity"
	"github.com/acompanythatsellseverything/BOAK-backend/internal/infra/integration/gohighlevel"
	"github.com/acompanythatsellseverything/BOAK-backend/internal/infra/queue"
)

// MockCRMGateway
type MockCRMGateway struct {
	mock.Mock
}

func (m *MockCRMGateway) LookupContactByEmail(ctx context.Context, email string) (*gohighlevel.LookupResult, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gohighlevel.LookupResult), args.Error(1)
}

func (m *MockCRMGateway) LookupContactByPhone(ctx context.Context, phone string) (*gohighlevel.LookupResult, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gohighlevel.LookupResult), args.Error(1)
}

func (m *MockCRMGateway) CreateContact(ctx context.Context, fields gohighlevel.ContactFields) (*entity.Contact, error) {
	args := m.Called(ctx, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Contact), args.Error(1)
}

func (m *MockCRMGateway) UpdateContact(ctx context.Context, contactID string, fields gohighlevel.ContactFields) (*entity.Contact, error) {
	args := m.Called(ctx, contactID, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Contact), args.Error(1)
}

func (m *MockCRMGateway) FindDealByContact(ctx context.Context, contactID string) (*entity.Deal, error) {
	args := m.Called(ctx, contactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Deal), args.Error(1)
}

func (m *MockCRMGateway) CreateDeal(ctx context.Context, contactID, title string) (*entity.Deal, error) {
	args := m.Called(ctx, contactID, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Deal), args.Error(1)
}

func (m *MockCRMGateway) UpdateDeal(ctx context.Context, dealID, contactID, title string) (*entity.Deal, error) {
	args := m.Called(ctx, dealID, contactID, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Deal), args.Error(1)
}

func (m *MockCRMGateway) AddNote(ctx context.Context, contactID, body string) (*entity.Note, error) {
	args := m.Called(ctx, contactID, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Note), args.Error(1)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

// MockAlertMailer
type MockAlertMailer struct {
	mock.Mock
}

func (m *MockAlertMailer) SendAlert(subject, body string) error {
	args := m.Called(subject, body)
	return args.Error(0)
}

// MockEventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishLeadEvent(ctx context.Context, event queue.LeadEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
