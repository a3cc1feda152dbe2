// Package gohighlevel wraps the GoHighLevel v1 REST API. It is the only
// place allowed to inspect CRM response text: callers get classified
// results, never raw bodies.
package gohighlevel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/acompanythatsellseverything/BOAK-backend/internal/entity"
	"github.com/acompanythatsellseverything/BOAK-backend/internal/infra/http/middleware"
	"github.com/acompanythatsellseverything/BOAK-backend/internal/infra/logger"
	"github.com/acompanythatsellseverything/BOAK-backend/internal/phone"
)

const (
	apiVersion = "2021-04-15"
	dealStatus = "open"

	// The CRM reports a missing contact as a 200 response marking the
	// lookup field invalid. These are the only message strings matched.
	emailInvalidMessage = "The email address is invalid."
	phoneInvalidMessage = "The phone number is invalid."
)

// ErrMalformedResponse marks a CRM body that could not be decoded or
// matched neither expected shape. Processing of the webhook halts when
// a caller sees it.
var ErrMalformedResponse = errors.New("malformed CRM response")

type Client struct {
	baseURL    string
	apiKey     string
	pipelineID string
	stageID    string
	http       *http.Client
	log        logger.Logger
}

// NewClient builds a stateless CRM client. Pipeline and stage are fixed
// per deployment and injected here, not baked into the reconciliation
// logic.
func NewClient(baseURL, apiKey, pipelineID, stageID string, log logger.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		pipelineID: pipelineID,
		stageID:    stageID,
		http:       &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// LookupContactByEmail classifies the CRM's contact lookup for the
// full-form flow.
func (c *Client) LookupContactByEmail(ctx context.Context, email string) (*LookupResult, error) {
	endpoint := fmt.Sprintf("%s/v1/contacts/lookup?email=%s", c.baseURL, url.QueryEscape(email))
	return c.lookup(ctx, endpoint, "email")
}

// LookupContactByPhone normalizes the number to E.164 before querying,
// so a bare 10-digit form value still matches the stored contact.
func (c *Client) LookupContactByPhone(ctx context.Context, rawPhone string) (*LookupResult, error) {
	normalized := phone.NormalizeE164(rawPhone)
	endpoint := fmt.Sprintf("%s/v1/contacts/lookup?phone=%s", c.baseURL, url.QueryEscape(normalized))
	return c.lookup(ctx, endpoint, "phone")
}

func (c *Client) lookup(ctx context.Context, endpoint, field string) (*LookupResult, error) {
	body, err := c.do(ctx, http.MethodGet, endpoint, nil, "lookup_contact")
	if err != nil {
		return nil, err
	}

	var decoded lookupResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		middleware.RecordIntegrationError("gohighlevel")
		return nil, fmt.Errorf("decode lookup response: %w", ErrMalformedResponse)
	}

	if decoded.Email != nil && decoded.Email.Message == emailInvalidMessage {
		c.log.Info("contact lookup: not found", "field", field)
		return &LookupResult{Found: false}, nil
	}
	if decoded.Phone != nil && decoded.Phone.Message == phoneInvalidMessage {
		c.log.Info("contact lookup: not found", "field", field)
		return &LookupResult{Found: false}, nil
	}

	if len(decoded.Contacts) > 0 {
		result := &LookupResult{
			Found:     true,
			ContactID: decoded.Contacts[0].ID,
			Contacts:  decoded.Contacts,
		}
		c.log.Info("contact lookup: found", "field", field, "contact_id", result.ContactID)
		return result, nil
	}

	// Neither the not-found sentinel nor a contact list. Abort instead
	// of indexing into an empty list.
	middleware.RecordIntegrationError("gohighlevel")
	return nil, fmt.Errorf("lookup response matched no known shape: %w", ErrMalformedResponse)
}

// CreateContact registers a new contact and returns it with the
// CRM-assigned id.
func (c *Client) CreateContact(ctx context.Context, fields ContactFields) (*entity.Contact, error) {
	endpoint := fmt.Sprintf("%s/v1/contacts/", c.baseURL)

	body, err := c.do(ctx, http.MethodPost, endpoint, fields, "create_contact")
	if err != nil {
		return nil, err
	}

	var decoded contactEnvelope
	if err := json.Unmarshal(body, &decoded); err != nil {
		middleware.RecordIntegrationError("gohighlevel")
		return nil, fmt.Errorf("decode create contact response: %w", ErrMalformedResponse)
	}
	if decoded.Contact.ID == "" {
		middleware.RecordIntegrationError("gohighlevel")
		return nil, fmt.Errorf("create contact response missing id: %w", ErrMalformedResponse)
	}

	c.log.Info("contact created", "contact_id", decoded.Contact.ID)
	return &entity.Contact{
		ID:             decoded.Contact.ID,
		Email:          fields.Email,
		Name:           fields.Name,
		Phone:          fields.Phone,
		AttributionURL: fields.AttributionURL,
	}, nil
}

// UpdateContact overwrites the mutable contact fields unconditionally.
// Email is immutable after creation and is never sent here.
func (c *Client) UpdateContact(ctx context.Context, contactID string, fields ContactFields) (*entity.Contact, error) {
	endpoint := fmt.Sprintf("%s/v1/contacts/%s", c.baseURL, contactID)

	fields.Email = ""
	body, err := c.do(ctx, http.MethodPut, endpoint, fields, "update_contact")
	if err != nil {
		return nil, err
	}

	var decoded contactEnvelope
	if err := json.Unmarshal(body, &decoded); err != nil {
		middleware.RecordIntegrationError("gohighlevel")
		return nil, fmt.Errorf("decode update contact response: %w", ErrMalformedResponse)
	}
	if decoded.Contact.ID == "" {
		middleware.RecordIntegrationError("gohighlevel")
		return nil, fmt.Errorf("update contact response missing id: %w", ErrMalformedResponse)
	}

	c.log.Info("contact updated", "contact_id", decoded.Contact.ID)
	return &entity.Contact{
		ID:             decoded.Contact.ID,
		Name:           fields.Name,
		Phone:          fields.Phone,
		AttributionURL: fields.AttributionURL,
	}, nil
}

// FindDealByContact fetches the pipeline's full opportunity list and
// returns the first entry referencing the contact, or nil when the scan
// exhausts the list. The CRM offers no contact-scoped deal query.
func (c *Client) FindDealByContact(ctx context.Context, contactID string) (*entity.Deal, error) {
	endpoint := fmt.Sprintf("%s/v1/pipelines/%s/opportunities", c.baseURL, c.pipelineID)

	body, err := c.do(ctx, http.MethodGet, endpoint, nil, "list_deals")
	if err != nil {
		return nil, err
	}

	var decoded opportunityList
	if err := json.Unmarshal(body, &decoded); err != nil {
		middleware.RecordIntegrationError("gohighlevel")
		return nil, fmt.Errorf("decode opportunity list: %w", ErrMalformedResponse)
	}

	for _, opp := range decoded.Opportunities {
		if opp.Contact.ID == contactID {
			c.log.Info("deal found", "contact_id", contactID, "deal_id", opp.ID)
			return c.toDeal(opp), nil
		}
	}

	c.log.Info("no deal found", "contact_id", contactID)
	return nil, nil
}

// CreateDeal files a new opportunity under the configured pipeline and
// stage.
func (c *Client) CreateDeal(ctx context.Context, contactID, title string) (*entity.Deal, error) {
	endpoint := fmt.Sprintf("%s/v1/pipelines/%s/opportunities/", c.baseURL, c.pipelineID)

	payload := opportunityRequest{
		Title:      title,
		Status:     dealStatus,
		PipelineID: c.pipelineID,
		StageID:    c.stageID,
		ContactID:  contactID,
	}

	body, err := c.do(ctx, http.MethodPost, endpoint, payload, "create_deal")
	if err != nil {
		return nil, err
	}

	return c.decodeDeal(body, "create deal")
}

// UpdateDeal refreshes the deal's title and status, keeping the same
// contact linkage.
func (c *Client) UpdateDeal(ctx context.Context, dealID, contactID, title string) (*entity.Deal, error) {
	endpoint := fmt.Sprintf("%s/v1/pipelines/%s/opportunities/%s", c.baseURL, c.pipelineID, dealID)

	payload := opportunityRequest{
		Title:      title,
		Status:     dealStatus,
		PipelineID: c.pipelineID,
		StageID:    c.stageID,
		ContactID:  contactID,
	}

	body, err := c.do(ctx, http.MethodPut, endpoint, payload, "update_deal")
	if err != nil {
		return nil, err
	}

	return c.decodeDeal(body, "update deal")
}

// AddNote appends the comment to the contact's notes. Notes are never
// updated or deduplicated.
func (c *Client) AddNote(ctx context.Context, contactID, noteBody string) (*entity.Note, error) {
	endpoint := fmt.Sprintf("%s/v1/contacts/%s/notes/", c.baseURL, contactID)

	payload := noteRequest{
		Body:         noteBody,
		ResourceType: "opportunity",
		ResourceID:   contactID,
	}

	body, err := c.do(ctx, http.MethodPost, endpoint, payload, "add_note")
	if err != nil {
		return nil, err
	}

	var decoded noteRecord
	if err := json.Unmarshal(body, &decoded); err != nil {
		middleware.RecordIntegrationError("gohighlevel")
		return nil, fmt.Errorf("decode add note response: %w", ErrMalformedResponse)
	}
	if decoded.ID == "" {
		middleware.RecordIntegrationError("gohighlevel")
		return nil, fmt.Errorf("add note response missing id: %w", ErrMalformedResponse)
	}

	c.log.Info("note added", "contact_id", contactID, "note_id", decoded.ID)
	return &entity.Note{
		ID:           decoded.ID,
		ResourceID:   contactID,
		ResourceType: "opportunity",
		Body:         decoded.Body,
	}, nil
}

// do issues one request and returns the raw body. Status codes are not
// inspected: the CRM encodes validation failures inside 200 bodies, so
// classification is body-driven in each caller.
func (c *Client) do(ctx context.Context, method, endpoint string, payload interface{}, operation string) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s payload: %w", operation, err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		middleware.RecordIntegrationError("gohighlevel")
		return nil, fmt.Errorf("%s request: %w", operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		middleware.RecordIntegrationError("gohighlevel")
		return nil, fmt.Errorf("read %s response: %w", operation, ErrMalformedResponse)
	}

	return body, nil
}

func (c *Client) decodeDeal(body []byte, operation string) (*entity.Deal, error) {
	var decoded opportunityRecord
	if err := json.Unmarshal(body, &decoded); err != nil {
		middleware.RecordIntegrationError("gohighlevel")
		return nil, fmt.Errorf("decode %s response: %w", operation, ErrMalformedResponse)
	}
	if decoded.ID == "" {
		middleware.RecordIntegrationError("gohighlevel")
		return nil, fmt.Errorf("%s response missing id: %w", operation, ErrMalformedResponse)
	}

	c.log.Info("deal written", "deal_id", decoded.ID)
	return c.toDeal(decoded), nil
}

func (c *Client) toDeal(opp opportunityRecord) *entity.Deal {
	deal := &entity.Deal{
		ID:         opp.ID,
		Title:      opp.Title,
		Status:     opp.Status,
		ContactID:  opp.Contact.ID,
		PipelineID: c.pipelineID,
		StageID:    c.stageID,
	}
	if deal.Status == "" {
		deal.Status = dealStatus
	}
	return deal
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")
}
