package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pawgrammers/internal/ports/auth"
	"pawgrammers/internal/router"
)

func TestHTTP_EndToEnd_PetsCRUD(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	// 1) Alta de dos mascotas
	rexID := createPet(t, ts.URL, map[string]any{"name": "Rex", "breed": "labrador", "age": 4})
	mimiID := createPet(t, ts.URL, map[string]any{"name": "Mimi", "breed": "siamese"})

	// 2) Listado en orden de alta, con "_id"
	{
		st, body := doReq(t, ts.URL, "GET", "/pets", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list, got %d body=%s", st, string(body))
		}
		var list []map[string]any
		_ = json.Unmarshal(body, &list)
		if len(list) != 2 || list[0]["_id"] != rexID || list[1]["_id"] != mimiID {
			t.Fatalf("unexpected list body=%s", string(body))
		}
	}

	// 3) PUT reemplaza campos
	{
		st, body := doReq(t, ts.URL, "PUT", "/pets/"+rexID, "", map[string]any{
			"name": "Rex", "breed": "labrador", "age": 5, "url": "https://example.com/rex.jpg",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 put, got %d body=%s", st, string(body))
		}
	}

	// 4) PATCH con "age": null limpia la edad
	{
		st, body := doReq(t, ts.URL, "PATCH", "/pets/"+rexID, "", map[string]any{"age": nil})
		if st != http.StatusOK {
			t.Fatalf("expected 200 patch, got %d body=%s", st, string(body))
		}
		var p map[string]any
		_ = json.Unmarshal(body, &p)
		if _, ok := p["age"]; ok {
			t.Fatalf("expected age cleared, body=%s", string(body))
		}
		if p["url"] != "https://example.com/rex.jpg" {
			t.Fatalf("expected url kept, body=%s", string(body))
		}
	}

	// 5) DELETE reporta deletedCount 1 y después 0
	for _, want := range []float64{1, 0} {
		st, body := doReq(t, ts.URL, "DELETE", "/pets/"+rexID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 delete, got %d body=%s", st, string(body))
		}
		var resp map[string]float64
		_ = json.Unmarshal(body, &resp)
		if resp["deletedCount"] != want {
			t.Fatalf("expected deletedCount=%v, body=%s", want, string(body))
		}
	}

	// 6) GET del borrado => 404 con message
	{
		st, body := doReq(t, ts.URL, "GET", "/pets/"+rexID, "", nil)
		if st != http.StatusNotFound || !strings.Contains(string(body), "pet not found") {
			t.Fatalf("expected 404 pet not found, got %d body=%s", st, string(body))
		}
	}
}

func TestHTTP_CreatePet_ValidationMessage(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "POST", "/pets", "", map[string]any{"name": "Milo"})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", st)
	}
	var resp map[string]string
	_ = json.Unmarshal(body, &resp)
	if !strings.Contains(resp["message"], "breed is required") {
		t.Fatalf("expected breed message, body=%s", string(body))
	}
}

type tokenVerifier struct{}

func (tokenVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if token == "admin-token" {
		return auth.Claims{UserID: "admin-1"}, nil
	}
	return auth.Claims{}, errors.New("invalid token")
}

func TestHTTP_WithVerifier_MutationsRequireToken(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: tokenVerifier{}}))
	defer ts.Close()

	// Lectura abierta
	if st, _ := doReq(t, ts.URL, "GET", "/pets", "", nil); st != http.StatusOK {
		t.Fatalf("expected 200 list without token, got %d", st)
	}

	// Escritura sin token => 401
	if st, _ := doReq(t, ts.URL, "POST", "/pets", "", map[string]any{"name": "a", "breed": "b"}); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", st)
	}

	// Con token => 201
	if st, body := doReq(t, ts.URL, "POST", "/pets", "admin-token", map[string]any{"name": "a", "breed": "b"}); st != http.StatusCreated {
		t.Fatalf("expected 201 with token, got %d body=%s", st, string(body))
	}
}

func TestHTTP_OpsEndpoints(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	if st, body := doReq(t, ts.URL, "GET", "/health", "", nil); st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("health: %d %s", st, string(body))
	}

	_, _ = doReq(t, ts.URL, "GET", "/pets", "", nil)
	st, body := doReq(t, ts.URL, "GET", "/metrics", "", nil)
	if st != http.StatusOK || !strings.Contains(string(body), `pawgrammers_http_requests_total{method="GET",route="/pets`) {
		t.Fatalf("metrics: %d %s", st, string(body))
	}

	st, body = doReq(t, ts.URL, "GET", "/swagger/doc.json", "", nil)
	if st != http.StatusOK || !strings.Contains(string(body), "Pawgrammers Pets API") {
		t.Fatalf("swagger: %d %s", st, string(body))
	}
}

func createPet(t *testing.T, baseURL string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/pets", "", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"_id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create pet: missing _id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
