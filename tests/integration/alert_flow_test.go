package integration

import (
	"net/http"
	"testing"
)

func alertIDs(result map[string]interface{}) []string {
	raw := result["alerts"].([]interface{})
	ids := make([]string, 0, len(raw))
	for _, a := range raw {
		ids = append(ids, a.(map[string]interface{})["id"].(string))
	}
	return ids
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func TestAlertFlow_RecordingRefreshesAlerts(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "alerted@test.com", "password123")

	// A small income leaves the safe balance under the ₹10,000 threshold.
	rec := app.request("POST", "/api/v1/transactions",
		`{"type":"income","amount":100000}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	ids := alertIDs(parseJSON(t, rec))
	if !contains(ids, "low-balance") {
		t.Errorf("expected low-balance alert, got %v", ids)
	}
	if !contains(ids, "upcoming-bills") {
		t.Errorf("expected upcoming-bills alert, got %v", ids)
	}

	// An impulse expense adds the impulse warning.
	rec = app.request("POST", "/api/v1/transactions",
		`{"type":"expense","amount":5000,"is_impulse":true}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	ids = alertIDs(parseJSON(t, rec))
	if !contains(ids, "impulse-warning") {
		t.Errorf("expected impulse warning, got %v", ids)
	}
}

func TestAlertFlow_DismissalDoesNotSurviveRefresh(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "dismisser@test.com", "password123")

	rec := app.request("POST", "/api/v1/transactions",
		`{"type":"income","amount":100000}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.request("DELETE", "/api/v1/alerts/low-balance", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("dismiss failed: %d %s", rec.Code, rec.Body.String())
	}
	if contains(alertIDs(parseJSON(t, rec)), "low-balance") {
		t.Error("dismissed alert should be gone from the current list")
	}

	// The condition still holds, so a refresh brings it back.
	rec = app.request("POST", "/api/v1/alerts/refresh", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh failed: %d %s", rec.Code, rec.Body.String())
	}
	if !contains(alertIDs(parseJSON(t, rec)), "low-balance") {
		t.Error("dismissed alert should reappear after a refresh")
	}
}

func TestAlertFlow_DismissUnknown(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "confused@test.com", "password123")

	rec := app.request("DELETE", "/api/v1/alerts/no-such-alert", "", token)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
