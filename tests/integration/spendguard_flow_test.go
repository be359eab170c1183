package integration

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSpendGuardFlow_BlockedExpense(t *testing.T) {
	guard := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"BLOCKED","message":"Third food delivery today. Cook something?"}`))
	}))
	defer guard.Close()

	app := setupAppWithGuard(t, guard.URL)
	token, _ := app.registerUser(t, "foodie@test.com", "password123")

	rec := app.request("POST", "/api/v1/transactions",
		`{"type":"income","amount":1000000}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.request("POST", "/api/v1/transactions",
		`{"type":"expense","amount":50000,"category":"food"}`, token)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for a blocked expense, got %d: %s", rec.Code, rec.Body.String())
	}
	errObj := parseJSON(t, rec)["error"].(map[string]interface{})
	if errObj["code"] != "SPENDING_BLOCKED" {
		t.Errorf("expected SPENDING_BLOCKED, got %v", errObj["code"])
	}
	if errObj["message"] != "Third food delivery today. Cook something?" {
		t.Errorf("expected the analyst's message passed through, got %v", errObj["message"])
	}

	// The balance is untouched.
	rec = app.request("GET", "/api/v1/summary", "", token)
	sum := parseJSON(t, rec)
	if sum["safe_to_spend"].(float64) != 700000 {
		t.Errorf("blocked expense must not change the balance, got %v", sum["safe_to_spend"])
	}
}

func TestSpendGuardFlow_OutageFailsOpen(t *testing.T) {
	guard := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond) // beyond the configured timeout
	}))
	defer guard.Close()

	app := setupAppWithGuard(t, guard.URL)
	token, _ := app.registerUser(t, "patient@test.com", "password123")

	rec := app.request("POST", "/api/v1/transactions",
		`{"type":"expense","amount":50000,"category":"food"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("an unavailable pre-check must not block spending: %d %s", rec.Code, rec.Body.String())
	}
}
