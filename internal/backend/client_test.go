package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rentgrid/backoffice/internal/core/domain"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(url string, token string) *Client {
	var tokens TokenSource
	if token != "" {
		tokens = staticToken(token)
	}
	return New(url, tokens, zerolog.Nop())
}

func TestClient_UnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listens any more

	c := newTestClient(srv.URL, "")
	_, err := c.Cars(context.Background(), false)
	if !errors.Is(err, ErrBackendUnreachable) {
		t.Fatalf("expected ErrBackendUnreachable, got %v", err)
	}
	if !strings.Contains(err.Error(), "check if the backend is running") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestClient_ErrorMessageFromMessageField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"success":false,"message":"Invalid token"}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, "bad").Cars(context.Background(), false)
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.Status != http.StatusUnauthorized || reqErr.Message != "Invalid token" {
		t.Fatalf("got %d %q", reqErr.Status, reqErr.Message)
	}
}

func TestClient_ErrorMessageFromErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"error":"email already registered"}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, "").Register(context.Background(), "A", "a@b.c", "pw")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.Message != "email already registered" {
		t.Fatalf("message = %q", reqErr.Message)
	}
}

func TestClient_ErrorMessageFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "<html>gateway error</html>")
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, "").Cars(context.Background(), false)
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.Message != http.StatusText(http.StatusBadGateway) {
		t.Fatalf("message = %q", reqErr.Message)
	}
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		io.WriteString(w, `{"success":true,"cars":[]}`)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL, "tok-123").Cars(context.Background(), false); err != nil {
		t.Fatalf("cars: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
}

func TestClient_OmitsAuthorizationWhenLoggedOut(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		io.WriteString(w, `{"success":true,"cars":[]}`)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL, "").Cars(context.Background(), false); err != nil {
		t.Fatalf("cars: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestClient_ActiveCarsQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		io.WriteString(w, `{"success":true,"cars":[{"id":1,"name":"Model 3"}]}`)
	}))
	defer srv.Close()

	cars, err := newTestClient(srv.URL, "").ActiveCars(context.Background())
	if err != nil {
		t.Fatalf("active cars: %v", err)
	}
	if gotQuery != "active=true" {
		t.Fatalf("query = %q", gotQuery)
	}
	if len(cars) != 1 || cars[0].Name != "Model 3" {
		t.Fatalf("cars = %+v", cars)
	}
}

func TestClient_CreateCarSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("not multipart: %v", err)
		}
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "multipart/form-data") {
			t.Errorf("Content-Type = %q", ct)
		}
		if v := r.FormValue("is_active"); v != "1" {
			t.Errorf("is_active = %q", v)
		}
		var features []string
		if err := json.Unmarshal([]byte(r.FormValue("features")), &features); err != nil || len(features) != 2 {
			t.Errorf("features = %q (%v)", r.FormValue("features"), err)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Errorf("image part: %v", err)
		} else {
			defer file.Close()
			if header.Filename != "car.jpg" {
				t.Errorf("filename = %q", header.Filename)
			}
		}
		io.WriteString(w, `{"success":true,"car":{"id":42,"name":"Model 3"}}`)
	}))
	defer srv.Close()

	car := domain.Car{
		Name:     "Model 3",
		Brand:    "Tesla",
		Seats:    5,
		Features: []string{"Autopilot", "Heated seats"},
		IsActive: true,
	}
	created, err := newTestClient(srv.URL, "tok").CreateCar(context.Background(), car, &Upload{Filename: "car.jpg", Data: []byte("jpegdata")})
	if err != nil {
		t.Fatalf("create car: %v", err)
	}
	if created.ID != 42 {
		t.Fatalf("created id = %d", created.ID)
	}
}

func TestClient_ContentJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["key"] != "about" || body["title"] != "About us" {
			t.Errorf("body = %v", body)
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"success":true,"content_block":{"id":7,"key":"about"}}`)
	}))
	defer srv.Close()

	block, err := newTestClient(srv.URL, "tok").CreateContent(context.Background(), domain.ContentBlock{Key: "about", Title: "About us"})
	if err != nil {
		t.Fatalf("create content: %v", err)
	}
	if block.ID != 7 {
		t.Fatalf("block id = %d", block.ID)
	}
}

func TestClient_MalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "not json at all")
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, "").Cars(context.Background(), false)
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.Message != "unexpected response from backend" {
		t.Fatalf("message = %q", reqErr.Message)
	}
}
