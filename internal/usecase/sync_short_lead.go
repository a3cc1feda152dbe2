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

// SyncShortLeadUseCase is the phone-keyed isomorph of SyncLeadUseCase
// for the short capture form: contact lookup goes by normalized phone,
// the deal title uses the phone as identifier, and no note is attached
// because the short form has no comment field.
type SyncShortLeadUseCase struct {
	CRM      CRMGateway
	Notifier Notifier
	Mailer   AlertMailer             // optional
	Events   EventPublisherInterface // optional
	Log      logger.Logger
}

func NewSyncShortLeadUseCase(
	crm CRMGateway,
	notifier Notifier,
	mailer AlertMailer,
	events EventPublisherInterface,
	log logger.Logger,
) *SyncShortLeadUseCase {
	return &SyncShortLeadUseCase{
		CRM:      crm,
		Notifier: notifier,
		Mailer:   mailer,
		Events:   events,
		Log:      log,
	}
}

func (uc *SyncShortLeadUseCase) Execute(ctx context.Context, input SyncShortLeadInput) SyncResult {
	if errs := ValidateSyncShortLeadInput(input); len(errs) > 0 {
		return uc.abort(ctx, input, "", "", fmt.Errorf("invalid payload: %s", joinValidationErrors(errs)))
	}

	lead, err := entity.NewShortLead(input.Name, input.Phone, input.AttributionURL)
	if err != nil {
		return uc.abort(ctx, input, "", "", err)
	}

	title := fmt.Sprintf("%s - %s", lead.Phone, lead.Name)

	lookup, err := uc.CRM.LookupContactByPhone(ctx, lead.Phone)
	if err != nil {
		return uc.abort(ctx, input, "", "", fmt.Errorf("contact lookup: %w", err))
	}

	fields := gohighlevel.ContactFields{
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

	uc.Log.Info("short lead synced",
		"request_id", input.RequestID,
		"contact_id", contactID,
		"deal_id", dealID,
	)
	uc.publish(ctx, input, contactID, dealID, "synced", "")

	return SyncResult{Status: StatusOK}
}

func (uc *SyncShortLeadUseCase) abort(ctx context.Context, input SyncShortLeadInput, contactID, dealID string, cause error) SyncResult {
	uc.Log.Error("webhook aborted",
		"request_id", input.RequestID,
		"phone", input.Phone,
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

	uc.publish(ctx, input, contactID, dealID, "failed", cause.Error())

	return SyncResult{Status: StatusError, Message: cause.Error()}
}

func (uc *SyncShortLeadUseCase) publish(ctx context.Context, input SyncShortLeadInput, contactID, dealID, status, message string) {
	if uc.Events == nil {
		return
	}

	event := queue.LeadEvent{
		RequestID:  input.RequestID,
		Form:       FormShort,
		Status:     status,
		Name:       input.Name,
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
