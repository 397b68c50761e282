package people

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/roster/backend/internal/model/roster"
	peopleService "github.com/zhouzirui/roster/backend/internal/service/people"
	"github.com/zhouzirui/roster/backend/internal/store"
)

const seedData = `{
  "People": [
    {"Id": 1, "name": "A", "tags": ["x"]},
    {"Id": 3, "name": "C"}
  ],
  "Departments": [{"Name": "Ops"}]
}`

func setupRouter(t *testing.T, content string) (*chi.Mux, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sampleData.json")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	fs, err := store.New(path)
	if err != nil {
		t.Fatalf("store.New err: %v", err)
	}

	r := chi.NewRouter()
	New(peopleService.NewService(fs), nil).RegisterRoutes(r)
	return r, path
}

func do(r http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeObject(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", resp.Body.String(), err)
	}
	return out
}

func TestListPeople(t *testing.T) {
	r, _ := setupRouter(t, seedData)

	resp := do(r, http.MethodGet, "/people", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var list []map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 || list[0]["name"] != "A" || list[1]["name"] != "C" {
		t.Fatalf("unexpected list: %v", list)
	}
}

func TestListPeopleEmptyIsArray(t *testing.T) {
	r, _ := setupRouter(t, `{"Departments":[]}`)

	resp := do(r, http.MethodGet, "/people", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := bytes.TrimSpace(resp.Body.Bytes()); string(got) != "[]" {
		t.Fatalf("expected [], got %s", got)
	}
}

func TestGetPerson(t *testing.T) {
	r, _ := setupRouter(t, seedData)

	resp := do(r, http.MethodGet, "/people/3", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := decodeObject(t, resp); got["name"] != "C" || got["Id"] != float64(3) {
		t.Fatalf("unexpected person: %v", got)
	}
}

func TestGetPersonNotFound(t *testing.T) {
	r, _ := setupRouter(t, seedData)

	if resp := do(r, http.MethodGet, "/people/2", nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestMalformedIDIsBadRequest(t *testing.T) {
	r, _ := setupRouter(t, seedData)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		resp := do(r, method, "/people/abc", []byte(`{}`))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", method, resp.Code)
		}
	}
}

func TestCreatePersonIgnoresClientID(t *testing.T) {
	r, _ := setupRouter(t, seedData)

	resp := do(r, http.MethodPost, "/people", []byte(`{"Id": 1, "name": "New", "age": 30}`))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	created := decodeObject(t, resp)
	if created["Id"] != float64(4) || created["name"] != "New" || created["age"] != float64(30) {
		t.Fatalf("unexpected created person: %v", created)
	}

	got := decodeObject(t, do(r, http.MethodGet, "/people/4", nil))
	if got["name"] != "New" {
		t.Fatalf("created person not persisted: %v", got)
	}
}

func TestCreatePersonEmptyBody(t *testing.T) {
	r, _ := setupRouter(t, `{"People":[],"Departments":[]}`)

	resp := do(r, http.MethodPost, "/people", nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	if got := decodeObject(t, resp); got["Id"] != float64(1) || len(got) != 1 {
		t.Fatalf("unexpected created person: %v", got)
	}
}

func TestCreatePersonRejectsNonObject(t *testing.T) {
	r, _ := setupRouter(t, seedData)

	for _, body := range []string{`[1,2]`, `null`, `"x"`, `{"name":`} {
		if resp := do(r, http.MethodPost, "/people", []byte(body)); resp.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, resp.Code)
		}
	}
}

func TestUpdatePersonMerges(t *testing.T) {
	r, _ := setupRouter(t, seedData)

	resp := do(r, http.MethodPut, "/people/1", []byte(`{"tags": ["y"], "Id": 77}`))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	merged := decodeObject(t, resp)
	tags, _ := merged["tags"].([]any)
	if merged["Id"] != float64(1) || merged["name"] != "A" || len(tags) != 1 || tags[0] != "y" {
		t.Fatalf("unexpected merge: %v", merged)
	}
}

func TestUpdatePersonNotFound(t *testing.T) {
	r, _ := setupRouter(t, seedData)

	if resp := do(r, http.MethodPut, "/people/9", []byte(`{"name":"Z"}`)); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestDeletePerson(t *testing.T) {
	r, _ := setupRouter(t, seedData)

	resp := do(r, http.MethodDelete, "/people/1", nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if resp.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", resp.Body.String())
	}
	if resp := do(r, http.MethodGet, "/people/1", nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.Code)
	}

	// deleting again is still a success
	if resp := do(r, http.MethodDelete, "/people/1", nil); resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for repeated delete, got %d", resp.Code)
	}
}

func TestStorageFailureIsServerError(t *testing.T) {
	r, _ := setupRouter(t, "")

	cases := []struct {
		method string
		path   string
		body   []byte
	}{
		{http.MethodGet, "/people", nil},
		{http.MethodGet, "/people/1", nil},
		{http.MethodPost, "/people", []byte(`{"name":"x"}`)},
		{http.MethodPut, "/people/1", []byte(`{"name":"x"}`)},
		{http.MethodDelete, "/people/1", nil},
	}
	for _, tc := range cases {
		resp := do(r, tc.method, tc.path, tc.body)
		if resp.Code != http.StatusInternalServerError {
			t.Fatalf("%s %s: expected 500, got %d", tc.method, tc.path, resp.Code)
		}
		if body := decodeObject(t, resp); body["error"] == "" {
			t.Fatalf("%s %s: expected error message", tc.method, tc.path)
		}
	}
}

func TestCorruptFileIsServerError(t *testing.T) {
	r, _ := setupRouter(t, `{"People": oops}`)

	if resp := do(r, http.MethodGet, "/people", nil); resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

// failingWriteStore serves reads from a fixed dataset and fails every write.
type failingWriteStore struct {
	data string
}

func (s failingWriteStore) load() (*roster.Dataset, error) {
	ds := &roster.Dataset{}
	if err := (store.JSONCodec{}).Decode([]byte(s.data), ds); err != nil {
		return nil, err
	}
	ds.Normalize()
	return ds, nil
}

func (s failingWriteStore) View(_ context.Context, fn func(*roster.Dataset) error) error {
	ds, err := s.load()
	if err != nil {
		return err
	}
	return fn(ds)
}

func (s failingWriteStore) Update(_ context.Context, fn func(*roster.Dataset) error) error {
	ds, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(ds); err != nil {
		return err
	}
	return fmt.Errorf("%w: disk full", store.ErrStorageWrite)
}

func TestWriteFailureIsServerError(t *testing.T) {
	r := chi.NewRouter()
	New(peopleService.NewService(failingWriteStore{data: seedData}), nil).RegisterRoutes(r)

	if resp := do(r, http.MethodGet, "/people/1", nil); resp.Code != http.StatusOK {
		t.Fatalf("reads must still succeed, got %d", resp.Code)
	}

	cases := []struct {
		method string
		path   string
		body   []byte
	}{
		{http.MethodPost, "/people", []byte(`{"name":"x"}`)},
		{http.MethodPut, "/people/1", []byte(`{"name":"x"}`)},
		{http.MethodDelete, "/people/1", nil},
	}
	for _, tc := range cases {
		resp := do(r, tc.method, tc.path, tc.body)
		if resp.Code != http.StatusInternalServerError {
			t.Fatalf("%s %s: expected 500, got %d", tc.method, tc.path, resp.Code)
		}
		body := decodeObject(t, resp)
		if body["error"] != "error writing data" {
			t.Fatalf("%s %s: expected generic error, got %v", tc.method, tc.path, body)
		}
	}

	// a missing person is reported before any write is attempted
	if resp := do(r, http.MethodPut, "/people/9", []byte(`{"name":"x"}`)); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestCreatePersonRejectsTrailingData(t *testing.T) {
	r, path := setupRouter(t, seedData)

	for _, body := range []string{`{"a":1} junk`, `{"a":1}{"b":2}`} {
		if resp := do(r, http.MethodPost, "/people", []byte(body)); resp.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, resp.Code)
		}
	}
	if resp := do(r, http.MethodPut, "/people/1", []byte(`{"a":1} junk`)); resp.Code != http.StatusBadRequest {
		t.Fatalf("PUT with trailing data: expected 400, got %d", resp.Code)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(raw) != seedData {
		t.Fatalf("data file changed by rejected requests: %s", raw)
	}

	if resp := do(r, http.MethodPost, "/people", []byte("{\"a\":1}\n  ")); resp.Code != http.StatusCreated {
		t.Fatalf("trailing whitespace: expected 201, got %d", resp.Code)
	}
}
