package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/acompanythatsellseverything/BOAK-backend/internal/entity"
	"github.com/acompanythatsellseverything/BOAK-backend/internal/infra/integration/gohighlevel"
	"github.com/acompanythatsellseverything/BOAK-backend/internal/infra/logger"
	"github.com/acompanythatsellseverything/BOAK-backend/internal/infra/queue"
)

// SyncLeadUseCase reconciles one full-form webhook (keyed by email)
// into the CRM: find-or-create contact, find-or-create deal, append
// the comment as a note.
//
// No step is retried and nothing is rolled back on a later failure: a
// contact created before a deal failure stands. Two concurrent webhooks
// for the same email can both see "not found" and create duplicates;
// the CRM offers no idempotency key, so this is accepted.
type SyncLeadUseCase struct {
	CRM      CRMGateway
	Notifier Notifier
	Mailer   AlertMailer             // optional
	Events   EventPublisherInterface // optional
	Log      logger.Logger
}

func NewSyncLeadUseCase(
	crm CRMGateway,
	notifier Notifier,
	mailer AlertMailer,
	events EventPublisherInterface,
	log logger.Logger,
) *SyncLeadUseCase {
	return &SyncLeadUseCase{
		CRM:      crm,
		Notifier: notifier,
		Mailer:   mailer,
		Events:   events,
		Log:      log,
	}
}

// Execute runs the reconciliation state machine and always returns an
// envelope; faults never escape to the endpoint.
func (uc *SyncLeadUseCase) Execute(ctx context.Context, input SyncLeadInput) SyncResult {
	if errs := ValidateSyncLeadInput(input); len(errs) > 0 {
		return uc.abort(ctx, input, "", "", fmt.Errorf("invalid payload: %s", joinValidationErrors(errs)))
	}

	lead, err := entity.NewLead(input.Email, input.Name, input.Phone, input.Comment, input.AttributionURL)
	if err != nil {
		return uc.abort(ctx, input, "", "", err)
	}

	// Title is recomputed fresh on every webhook, never cached.
	title := fmt.Sprintf("%s - %s", lead.Email, lead.Name)

	lookup, err := uc.CRM.LookupContactByEmail(ctx, lead.Email)
	if err != nil {
		return uc.abort(ctx, input, "", "", fmt.Errorf("contact lookup: %w", err))
	}

	fields := gohighlevel.ContactFields{
		Email:          lead.Email,
		Name:           lead.Name,
		Phone:          lead.Phone,
		AttributionURL: lead.AttributionURL,
	}

	var contactID, dealID string

	if !lookup.Found {
		contact, err := uc.CRM.CreateContact(ctx, fields)
		if err != nil {
			return uc.abort(ctx, input, "", "", fmt.Errorf("create contact: %w", err))
		}
		contactID = contact.ID

		deal, err := uc.CRM.CreateDeal(ctx, contactID, title)
		if err != nil {
			return uc.abort(ctx, input, contactID, "", fmt.Errorf("create deal: %w", err))
		}
		dealID = deal.ID
	} else {
		contactID = lookup.ContactID

		if _, err := uc.CRM.UpdateContact(ctx, contactID, fields); err != nil {
			return uc.abort(ctx, input, contactID, "", fmt.Errorf("update contact: %w", err))
		}

		existing, err := uc.CRM.FindDealByContact(ctx, contactID)
		if err != nil {
			return uc.abort(ctx, input, contactID, "", fmt.Errorf("deal lookup: %w", err))
		}

		if existing == nil {
			deal, err := uc.CRM.CreateDeal(ctx, contactID, title)
			if err != nil {
				return uc.abort(ctx, input, contactID, "", fmt.Errorf("create deal: %w", err))
			}
			dealID = deal.ID
		} else {
			deal, err := uc.CRM.UpdateDeal(ctx, existing.ID, contactID, title)
			if err != nil {
				return uc.abort(ctx, input, contactID, existing.ID, fmt.Errorf("update deal: %w", err))
			}
			dealID = deal.ID
		}
	}

	if _, err := uc.CRM.AddNote(ctx, contactID, lead.Comment); err != nil {
		return uc.abort(ctx, input, contactID, dealID, fmt.Errorf("add note: %w", err))
	}

	uc.Log.Info("lead synced",
		"request_id", input.RequestID,
		"contact_id", contactID,
		"deal_id", dealID,
	)
	uc.publishEvent(ctx, input, contactID, dealID, "")

	return SyncResult{Status: StatusOK}
}

// abort logs the failure, notifies the operator channel once and
// converts the cause into the error envelope. Partial CRM writes are
// left as they are.
func (uc *SyncLeadUseCase) abort(ctx context.Context, input SyncLeadInput, contactID, dealID string, cause error) SyncResult {
	uc.Log.Error("webhook aborted",
		"request_id", input.RequestID,
		"email", input.Email,
		"error", cause.Error(),
	)

	if err := uc.Notifier.Notify(ctx, cause.Error()); err != nil {
		uc.Log.Error("notifier delivery failed", "error", err.Error())
	}
	if uc.Mailer != nil {
		if err := uc.Mailer.SendAlert("Lead webhook failed", cause.Error()); err != nil {
			uc.Log.Error("alert mail failed", "error", err.Error())
		}
	}

	uc.publishFailedEvent(ctx, input, contactID, dealID, cause.Error())

	return SyncResult{Status: StatusError, Message: cause.Error()}
}

func (uc *SyncLeadUseCase) publishEvent(ctx context.Context, input SyncLeadInput, contactID, dealID, message string) {
	uc.publish(ctx, input, contactID, dealID, "synced", message)
}

func (uc *SyncLeadUseCase) publishFailedEvent(ctx context.Context, input SyncLeadInput, contactID, dealID, message string) {
	uc.publish(ctx, input, contactID, dealID, "failed", message)
}

func (uc *SyncLeadUseCase) publish(ctx context.Context, input SyncLeadInput, contactID, dealID, status, message string) {
	if uc.Events == nil {
		return
	}

	event := queue.LeadEvent{
		RequestID:  input.RequestID,
		Form:       FormFull,
		Status:     status,
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		ContactID:  contactID,
		DealID:     dealID,
		Message:    message,
		OccurredAt: time.Now().UTC(),
	}

	if err := uc.Events.PublishLeadEvent(ctx, event); err != nil {
		uc.Log.Error("lead event publish failed", "request_id", input.RequestID, "error", err.Error())
	}
}
