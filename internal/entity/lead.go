package entity

import (
	"errors"
)

// Lead is the unit of work per webhook: one prospective customer
// submitted through the capture form. Immutable after construction.
type Lead struct {
	Email          string `json:"email,omitempty"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Comment        string `json:"comment,omitempty"`
	AttributionURL string `json:"attribution_url,omitempty"`
}

// NewLead builds a full-form lead (keyed by email, carries a comment).
func NewLead(email, name, phone, comment, attributionURL string) (*Lead, error) {
	lead := &Lead{
		Email:          email,
		Name:           name,
		Phone:          phone,
		Comment:        comment,
		AttributionURL: attributionURL,
	}

	if err := lead.validateFull(); err != nil {
		return nil, err
	}

	return lead, nil
}

// NewShortLead builds a short-form lead (keyed by phone, no comment).
func NewShortLead(name, phone, attributionURL string) (*Lead, error) {
	lead := &Lead{
		Name:           name,
		Phone:          phone,
		AttributionURL: attributionURL,
	}

	if err := lead.validateShort(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) validateFull() error {
	if l.Email == "" {
		return errors.New("email is required")
	}
	if l.Name == "" {
		return errors.New("name is required")
	}
	if l.Phone == "" {
		return errors.New("phone is required")
	}
	return nil
}

func (l *Lead) validateShort() error {
	if l.Name == "" {
		return errors.New("name is required")
	}
	if l.Phone == "" {
		return errors.New("phone is required")
	}
	return nil
}
