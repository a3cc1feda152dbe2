package gohighlevel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/acompanythatsellseverything/BOAK-backend/internal/infra/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "test-key", "PIPE1", "STAGE1", logger.Nop())
	return client, server
}

func TestLookupContactByEmail_Found(t *testing.T) {
	var gotPath, gotAuth, gotVersion, gotEmail string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("Version")
		gotEmail = r.URL.Query().Get("email")
		w.Write([]byte(`{"contacts":[{"id":"C1","email":"a@b.com"},{"id":"C2"}]}`))
	})

	result, err := client.LookupContactByEmail(context.Background(), "a@b.com")

	assert.NoError(t, err)
	assert.True(t, result.Found)
	assert.Equal(t, "C1", result.ContactID)
	assert.Len(t, result.Contacts, 2)

	assert.Equal(t, "/v1/contacts/lookup", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "2021-04-15", gotVersion)
	assert.Equal(t, "a@b.com", gotEmail)
}

func TestLookupContactByEmail_NotFoundSentinel(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// The CRM reports a missing contact as a 200 with a nested
		// validation error.
		w.Write([]byte(`{"email":{"message":"The email address is invalid."}}`))
	})

	result, err := client.LookupContactByEmail(context.Background(), "nobody@b.com")

	assert.NoError(t, err)
	assert.False(t, result.Found)
}

func TestLookupContactByEmail_UnparsableBodyIsMalformed(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway timeout</html>`))
	})

	result, err := client.LookupContactByEmail(context.Background(), "a@b.com")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestLookupContactByEmail_AmbiguousShapeIsMalformed(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Neither the not-found sentinel nor a contact list.
		w.Write([]byte(`{"error":"rate limited"}`))
	})

	result, err := client.LookupContactByEmail(context.Background(), "a@b.com")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestLookupContactByPhone_NormalizesToE164(t *testing.T) {
	var gotPhone string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPhone = r.URL.Query().Get("phone")
		w.Write([]byte(`{"phone":{"message":"The phone number is invalid."}}`))
	})

	result, err := client.LookupContactByPhone(context.Background(), "5551234567")

	assert.NoError(t, err)
	assert.False(t, result.Found)
	assert.Equal(t, "+15551234567", gotPhone)
}

func TestCreateContact(t *testing.T) {
	var gotBody map[string]interface{}

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/contacts/", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"contact":{"id":"C9","email":"a@b.com"}}`))
	})

	contact, err := client.CreateContact(context.Background(), ContactFields{
		Email:          "a@b.com",
		Name:           "A B",
		Phone:          "5551234567",
		AttributionURL: "https://site.example/landing",
	})

	assert.NoError(t, err)
	assert.Equal(t, "C9", contact.ID)
	assert.Equal(t, "a@b.com", gotBody["email"])
	assert.Equal(t, "A B", gotBody["name"])
	assert.Equal(t, "https://site.example/landing", gotBody["website"])
}

func TestCreateContact_MissingIDIsMalformed(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"contact":{}}`))
	})

	contact, err := client.CreateContact(context.Background(), ContactFields{Name: "A B"})

	assert.Nil(t, contact)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestUpdateContact_NeverSendsEmail(t *testing.T) {
	var gotBody map[string]interface{}

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/v1/contacts/C1", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"contact":{"id":"C1"}}`))
	})

	contact, err := client.UpdateContact(context.Background(), "C1", ContactFields{
		Email: "a@b.com", // must be dropped: email is immutable
		Name:  "A B",
		Phone: "5551234567",
	})

	assert.NoError(t, err)
	assert.Equal(t, "C1", contact.ID)
	_, hasEmail := gotBody["email"]
	assert.False(t, hasEmail)
	assert.Equal(t, "A B", gotBody["name"])
}

func TestFindDealByContact_FirstMatchWins(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/pipelines/PIPE1/opportunities", r.URL.Path)
		w.Write([]byte(`{"opportunities":[
			{"id":"D1","contact":{"id":"OTHER"}},
			{"id":"D2","title":"first match","contact":{"id":"C1"}},
			{"id":"D3","contact":{"id":"C1"}}
		]}`))
	})

	deal, err := client.FindDealByContact(context.Background(), "C1")

	assert.NoError(t, err)
	assert.Equal(t, "D2", deal.ID)
}

func TestFindDealByContact_NoMatchReturnsNil(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"opportunities":[{"id":"D1","contact":{"id":"OTHER"}}]}`))
	})

	deal, err := client.FindDealByContact(context.Background(), "C1")

	assert.NoError(t, err)
	assert.Nil(t, deal)
}

func TestCreateDeal(t *testing.T) {
	var gotBody map[string]interface{}

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/pipelines/PIPE1/opportunities/", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"id":"D1","title":"a@b.com - A B","status":"open","contact":{"id":"C1"}}`))
	})

	deal, err := client.CreateDeal(context.Background(), "C1", "a@b.com - A B")

	assert.NoError(t, err)
	assert.Equal(t, "D1", deal.ID)
	assert.Equal(t, "open", deal.Status)

	assert.Equal(t, "a@b.com - A B", gotBody["title"])
	assert.Equal(t, "open", gotBody["status"])
	assert.Equal(t, "PIPE1", gotBody["pipelineId"])
	assert.Equal(t, "STAGE1", gotBody["stageId"])
	assert.Equal(t, "C1", gotBody["contactId"])
}

func TestUpdateDeal(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/v1/pipelines/PIPE1/opportunities/D1", r.URL.Path)
		w.Write([]byte(`{"id":"D1","title":"a@b.com - A B","status":"open"}`))
	})

	deal, err := client.UpdateDeal(context.Background(), "D1", "C1", "a@b.com - A B")

	assert.NoError(t, err)
	assert.Equal(t, "D1", deal.ID)
}

func TestUpdateDeal_UndecodableBodyIsMalformed(t *testing.T) {
	// The terminal step used to swallow decode failures; it must now
	// surface them like every other operation.
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	deal, err := client.UpdateDeal(context.Background(), "D1", "C1", "title")

	assert.Nil(t, deal)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestAddNote(t *testing.T) {
	var gotBody map[string]interface{}

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/contacts/C1/notes/", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"id":"N1","body":"hi"}`))
	})

	note, err := client.AddNote(context.Background(), "C1", "hi")

	assert.NoError(t, err)
	assert.Equal(t, "N1", note.ID)
	assert.Equal(t, "hi", note.Body)

	assert.Equal(t, "hi", gotBody["body"])
	assert.Equal(t, "opportunity", gotBody["resourceType"])
	assert.Equal(t, "C1", gotBody["resourceId"])
}

func TestTransportErrorIsReturned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // force connection errors

	client := NewClient(server.URL, "test-key", "PIPE1", "STAGE1", logger.Nop())

	result, err := client.LookupContactByEmail(context.Background(), "a@b.com")

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformedResponse)
}
