package entity

// Contact lives in the CRM; the ID is opaque and assigned on creation.
// Email is immutable after creation, the rest is overwritten on every
// matching webhook.
type Contact struct {
	ID             string `json:"id"`
	Email          string `json:"email,omitempty"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	AttributionURL string `json:"attribution_url,omitempty"`
}

// Deal is a pipeline opportunity linked to exactly one contact. At most
// one deal per contact is treated as "the" deal: the first match found
// scanning the pipeline's opportunity list.
type Deal struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	ContactID  string `json:"contact_id"`
	PipelineID string `json:"pipeline_id"`
	StageID    string `json:"stage_id"`
}

// Note is appended, never updated. Repeated webhooks for the same
// contact produce repeated notes.
type Note struct {
	ID           string `json:"id"`
	ResourceID   string `json:"resource_id"`
	ResourceType string `json:"resource_type"`
	Body         string `json:"body"`
}
