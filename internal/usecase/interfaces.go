package usecase

import (
	"context"

	"github.com/acompanythatsellseverything/BOAK-backend/internal/entity"
	"github.com/acompanythatsellseverything/BOAK-backend/internal/infra/integration/gohighlevel"
	"github.com/acompanythatsellseverything/BOAK-backend/internal/infra/queue"
)

// CRMGateway is the CRM surface the reconciler drives.
// Every operation is a single blocking round-trip with no retries; a
// Malformed body comes back as an error wrapping
// gohighlevel.ErrMalformedResponse.
type CRMGateway interface {
	LookupContactByEmail(ctx context.Context, email string) (*gohighlevel.LookupResult, error)
	LookupContactByPhone(ctx context.Context, phone string) (*gohighlevel.LookupResult, error)
	CreateContact(ctx context.Context, fields gohighlevel.ContactFields) (*entity.Contact, error)
	UpdateContact(ctx context.Context, contactID string, fields gohighlevel.ContactFields) (*entity.Contact, error)
	FindDealByContact(ctx context.Context, contactID string) (*entity.Deal, error)
	CreateDeal(ctx context.Context, contactID, title string) (*entity.Deal, error)
	UpdateDeal(ctx context.Context, dealID, contactID, title string) (*entity.Deal, error)
	AddNote(ctx context.Context, contactID, body string) (*entity.Note, error)
}

// Notifier is the best-effort operator side channel. Called exactly
// once per aborted webhook.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// AlertMailer mirrors the notification over SMTP when configured.
type AlertMailer interface {
	SendAlert(subject, body string) error
}

type EventPublisherInterface interface {
	PublishLeadEvent(ctx context.Context, event queue.LeadEvent) error
}

type SyncLeadInput struct {
	RequestID      string `json:"request_id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Comment        string `json:"comment"`
	AttributionURL string `json:"attribution_url"`
}

type SyncShortLeadInput struct {
	RequestID      string `json:"request_id"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	AttributionURL string `json:"attribution_url"`
}

// SyncResult is what the inbound caller sees, always under HTTP 200.
// Failures are distinguishable only by Status and Message.
type SyncResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"

	FormFull  = "full"
	FormShort = "short"
)
