package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/cse341/records-api/internal/api/middleware"
	"github.com/cse341/records-api/internal/core/domain"
	"github.com/cse341/records-api/internal/core/ports"
)

const validID = "65f0c0ffee0000000000abcd"

type stubDataService struct {
	listFn   func(ctx context.Context) ([]*domain.DataRecord, error)
	getFn    func(ctx context.Context, id string) (*domain.DataRecord, error)
	createFn func(ctx context.Context, in ports.DataInput) (*domain.DataRecord, error)
	updateFn func(ctx context.Context, id string, in ports.DataInput) (*domain.DataRecord, error)
	deleteFn func(ctx context.Context, id string) (*domain.DataRecord, error)
}

func (s *stubDataService) ListData(ctx context.Context) ([]*domain.DataRecord, error) {
	return s.listFn(ctx)
}

func (s *stubDataService) GetData(ctx context.Context, id string) (*domain.DataRecord, error) {
	return s.getFn(ctx, id)
}

func (s *stubDataService) CreateData(ctx context.Context, in ports.DataInput) (*domain.DataRecord, error) {
	return s.createFn(ctx, in)
}

func (s *stubDataService) UpdateData(ctx context.Context, id string, in ports.DataInput) (*domain.DataRecord, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubDataService) DeleteData(ctx context.Context, id string) (*domain.DataRecord, error) {
	return s.deleteFn(ctx, id)
}

// untouchedDataService fails the test on any call.
func untouchedDataService(t *testing.T) *stubDataService {
	fail := func() { t.Helper(); t.Fatal("service must not be called") }
	return &stubDataService{
		listFn:   func(context.Context) ([]*domain.DataRecord, error) { fail(); return nil, nil },
		getFn:    func(context.Context, string) (*domain.DataRecord, error) { fail(); return nil, nil },
		createFn: func(context.Context, ports.DataInput) (*domain.DataRecord, error) { fail(); return nil, nil },
		updateFn: func(context.Context, string, ports.DataInput) (*domain.DataRecord, error) { fail(); return nil, nil },
		deleteFn: func(context.Context, string) (*domain.DataRecord, error) { fail(); return nil, nil },
	}
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

const validDataBody = `{"title":"T","description":"D","category":"C","price":10,"metadata":{"author":"A"}}`

func TestDataHandler_Create_Success(t *testing.T) {
	e := newTestEcho()
	var got ports.DataInput
	stub := untouchedDataService(t)
	stub.createFn = func(_ context.Context, in ports.DataInput) (*domain.DataRecord, error) {
		got = in
		return &domain.DataRecord{ID: validID, Title: in.Title, IsActive: true, Tags: []string{}, Metadata: domain.DataMetadata{Author: in.Author, Version: "1.0"}}, nil
	}
	h := NewDataHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/data", validDataBody), rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.Title != "T" || got.Price != 10 || got.Author != "A" || got.IsActive != nil {
		t.Fatalf("unexpected service input: %+v", got)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["id"] != validID || body["isActive"] != true {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestDataHandler_Create_ExplicitFalsePassesThrough(t *testing.T) {
	e := newTestEcho()
	stub := untouchedDataService(t)
	stub.createFn = func(_ context.Context, in ports.DataInput) (*domain.DataRecord, error) {
		if in.IsActive == nil || *in.IsActive {
			t.Fatalf("explicit false lost: %+v", in.IsActive)
		}
		return &domain.DataRecord{}, nil
	}

	body := `{"title":"T","description":"D","category":"C","price":0,"isActive":false,"metadata":{"author":"A"}}`
	c := e.NewContext(jsonRequest(http.MethodPost, "/data", body), httptest.NewRecorder())
	if err := NewDataHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestDataHandler_Create_Validation(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		message string
		fields  []string
	}{
		{"missing fields", `{"title":"T","price":1}`, "Missing required fields", []string{"description", "category", "metadata.author"}},
		{"blank title", `{"title":"   ","description":"D","category":"C","price":1,"metadata":{"author":"A"}}`, "Missing required fields", []string{"title"}},
		{"missing price", `{"title":"T","description":"D","category":"C","metadata":{"author":"A"}}`, "Missing required fields", []string{"price"}},
		{"negative price", `{"title":"T","description":"D","category":"C","price":-1,"metadata":{"author":"A"}}`, "price must be a non-negative number", []string{"price"}},
		{"price as string", `{"title":"T","description":"D","category":"C","price":"10","metadata":{"author":"A"}}`, "Invalid type for field price", []string{"price"}},
		{"array body", `[]`, "Request body must be a JSON object", nil},
		{"malformed json", `{`, "Malformed JSON body", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEcho()
			c := e.NewContext(jsonRequest(http.MethodPost, "/data", tc.body), httptest.NewRecorder())

			err := NewDataHandler(untouchedDataService(t)).Create(c)

			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Message != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, ve.Message)
			}
			if strings.Join(ve.Fields, ",") != strings.Join(tc.fields, ",") {
				t.Fatalf("expected fields %v, got %v", tc.fields, ve.Fields)
			}
		})
	}
}

func TestDataHandler_MalformedIDNeverReachesService(t *testing.T) {
	e := newTestEcho()
	h := NewDataHandler(untouchedDataService(t))

	calls := map[string]func(echo.Context) error{
		"get":    h.Get,
		"update": h.Update,
		"delete": h.Delete,
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			c := withID(e.NewContext(jsonRequest(http.MethodPut, "/data/not-an-id", validDataBody), httptest.NewRecorder()), "not-an-id")
			if err := call(c); !errors.Is(err, domain.ErrInvalidID) {
				t.Fatalf("expected ErrInvalidID, got %v", err)
			}
		})
	}
}

func TestDataHandler_Get_NotFound(t *testing.T) {
	e := newTestEcho()
	stub := untouchedDataService(t)
	stub.getFn = func(context.Context, string) (*domain.DataRecord, error) { return nil, domain.ErrDataNotFound }

	c := withID(e.NewContext(httptest.NewRequest(http.MethodGet, "/data/"+validID, nil), httptest.NewRecorder()), validID)
	if err := NewDataHandler(stub).Get(c); !errors.Is(err, domain.ErrDataNotFound) {
		t.Fatalf("expected ErrDataNotFound, got %v", err)
	}
}

func TestDataHandler_Update_PassesIDAndInput(t *testing.T) {
	e := newTestEcho()
	stub := untouchedDataService(t)
	stub.updateFn = func(_ context.Context, id string, in ports.DataInput) (*domain.DataRecord, error) {
		if id != validID || in.Title != "T" {
			t.Fatalf("unexpected args: %s %+v", id, in)
		}
		return &domain.DataRecord{ID: id}, nil
	}

	rec := httptest.NewRecorder()
	c := withID(e.NewContext(jsonRequest(http.MethodPut, "/data/"+validID, validDataBody), rec), validID)
	if err := NewDataHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestDataHandler_Delete_Confirmation(t *testing.T) {
	e := newTestEcho()
	stub := untouchedDataService(t)
	stub.deleteFn = func(_ context.Context, id string) (*domain.DataRecord, error) {
		return &domain.DataRecord{ID: id, Title: "T"}, nil
	}

	rec := httptest.NewRecorder()
	c := withID(e.NewContext(httptest.NewRequest(http.MethodDelete, "/data/"+validID, nil), rec), validID)
	if err := NewDataHandler(stub).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var body struct {
		Message     string             `json:"message"`
		DeletedData *domain.DataRecord `json:"deletedData"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Message != "Data deleted successfully" || body.DeletedData == nil || body.DeletedData.ID != validID {
		t.Fatalf("unexpected confirmation: %+v", body)
	}
}

func TestDataHandler_List_Empty(t *testing.T) {
	e := newTestEcho()
	stub := untouchedDataService(t)
	stub.listFn = func(context.Context) ([]*domain.DataRecord, error) { return []*domain.DataRecord{}, nil }

	rec := httptest.NewRecorder()
	if err := NewDataHandler(stub).List(e.NewContext(httptest.NewRequest(http.MethodGet, "/data", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestDataHandler_ProtectedCreate_OverridesAuthor(t *testing.T) {
	e := newTestEcho()
	stub := untouchedDataService(t)
	stub.createFn = func(_ context.Context, in ports.DataInput) (*domain.DataRecord, error) {
		return &domain.DataRecord{ID: validID, Metadata: domain.DataMetadata{Author: in.Author}}, nil
	}

	body := `{"title":"T","description":"D","category":"C","price":10,"metadata":{"author":"Attacker"}}`
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/data/protected", body), rec)
	c.Set(middleware.SessionContextKey, &domain.AuthSession{ID: "42", Username: "alice", DisplayName: "Alice Liddell"})

	if err := NewDataHandler(stub).ProtectedCreate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp struct {
		User *domain.AuthSession `json:"user"`
		Data *domain.DataRecord  `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Data.Metadata.Author != "Alice Liddell" {
		t.Fatalf("expected author override, got %q", resp.Data.Metadata.Author)
	}
	if resp.User == nil || resp.User.Username != "alice" {
		t.Fatalf("expected session in response, got %+v", resp.User)
	}
}

func TestDataHandler_ProtectedCreate_AuthorOptional(t *testing.T) {
	e := newTestEcho()
	stub := untouchedDataService(t)
	stub.createFn = func(_ context.Context, in ports.DataInput) (*domain.DataRecord, error) {
		return &domain.DataRecord{Metadata: domain.DataMetadata{Author: in.Author}}, nil
	}

	body := `{"title":"T","description":"D","category":"C","price":10}`
	c := e.NewContext(jsonRequest(http.MethodPost, "/data/protected", body), httptest.NewRecorder())
	c.Set(middleware.SessionContextKey, &domain.AuthSession{Username: "alice", DisplayName: "alice"})

	if err := NewDataHandler(stub).ProtectedCreate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestDataHandler_ProtectedWithoutSession(t *testing.T) {
	e := newTestEcho()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/data/protected", nil), httptest.NewRecorder())

	if err := NewDataHandler(untouchedDataService(t)).ProtectedList(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
