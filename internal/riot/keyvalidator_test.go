package riot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestValidateKeyValid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Riot-Token") == "" {
			t.Error("X-Riot-Token header not set")
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"JP1","name":"Japan","locales":["ja_JP"]}`))
	}))
	defer server.Close()

	validator := NewKeyValidator(WithBaseURL(server.URL))

	valid, err := validator.ValidateKey(context.Background(), "RGAPI-test-key")
	if err != nil {
		t.Errorf("ValidateKey returned error: %v", err)
	}
	if !valid {
		t.Error("valid = false, want true")
	}
}

func TestValidateKeyRejected(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		validator := NewKeyValidator(WithBaseURL(server.URL))

		valid, err := validator.ValidateKey(context.Background(), "RGAPI-expired-key")
		if err != nil {
			t.Errorf("status %d: ValidateKey returned error: %v", status, err)
		}
		if valid {
			t.Errorf("status %d: valid = true, want false", status)
		}
		server.Close()
	}
}

func TestValidateKeyServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	validator := NewKeyValidator(WithBaseURL(server.URL))

	valid, err := validator.ValidateKey(context.Background(), "RGAPI-test-key")
	if err == nil {
		t.Error("ValidateKey returned nil error on 500, want error (validity unknown)")
	}
	if valid {
		t.Error("valid = true on 500, want false")
	}
}

func TestValidateKeyEmpty(t *testing.T) {
	validator := NewKeyValidator()

	valid, err := validator.ValidateKey(context.Background(), "")
	if err == nil {
		t.Error("ValidateKey accepted empty key, want error")
	}
	if valid {
		t.Error("valid = true for empty key, want false")
	}
}
