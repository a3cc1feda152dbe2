package gohighlevel

// ContactFields carries the writable contact attributes. The attribution
// URL travels in the CRM's "website" field.
type ContactFields struct {
	Email          string `json:"email,omitempty"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	AttributionURL string `json:"website,omitempty"`
}

// ContactRecord is one entry of the lookup response's contact list.
type ContactRecord struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"contactName"`
	Phone string `json:"phone"`
}

// LookupResult is the classified outcome of a contact lookup. A decode
// failure or an unrecognized body shape is reported as an error wrapping
// ErrMalformedResponse, never as a LookupResult.
type LookupResult struct {
	Found     bool
	ContactID string          // first entry of the list when Found
	Contacts  []ContactRecord // raw list as returned by the CRM
}

// fieldError is how the CRM reports "no such contact": a 200 response
// whose body marks the lookup field invalid.
type fieldError struct {
	Message string `json:"message"`
}

type lookupResponse struct {
	Contacts []ContactRecord `json:"contacts"`
	Email    *fieldError     `json:"email"`
	Phone    *fieldError     `json:"phone"`
}

type contactEnvelope struct {
	Contact ContactRecord `json:"contact"`
}

type opportunityRecord struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Status  string `json:"status"`
	Contact struct {
		ID string `json:"id"`
	} `json:"contact"`
}

type opportunityList struct {
	Opportunities []opportunityRecord `json:"opportunities"`
}

type opportunityRequest struct {
	Title      string `json:"title"`
	Status     string `json:"status"`
	PipelineID string `json:"pipelineId"`
	StageID    string `json:"stageId"`
	ContactID  string `json:"contactId"`
}

type noteRequest struct {
	Body         string `json:"body"`
	ResourceType string `json:"resourceType"`
	ResourceID   string `json:"resourceId"`
}

type noteRecord struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}
