package integration

import (
	"net/http"
	"testing"
)

func TestLedgerFlow_IncomeSplitsTaxShare(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "earner@test.com", "password123")

	// Record ₹10,000 of income (1,000,000 paise).
	rec := app.request("POST", "/api/v1/transactions",
		`{"type":"income","amount":1000000,"category":"freelance","description":"Website project"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)

	profile := result["profile"].(map[string]interface{})
	if profile["safe_balance"].(float64) != 700000 {
		t.Errorf("expected safe balance 700000, got %v", profile["safe_balance"])
	}
	if profile["tax_vault"].(float64) != 300000 {
		t.Errorf("expected tax vault 300000, got %v", profile["tax_vault"])
	}

	sum := result["summary"].(map[string]interface{})
	if sum["total_balance"].(float64) != 1000000 {
		t.Errorf("expected total balance 1000000, got %v", sum["total_balance"])
	}
	if sum["safe_to_spend"].(float64) != 700000 {
		t.Errorf("expected safe-to-spend 700000, got %v", sum["safe_to_spend"])
	}

	// The standalone summary endpoint agrees.
	rec = app.request("GET", "/api/v1/summary", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	sum = parseJSON(t, rec)
	if sum["total_income"].(float64) != 1000000 {
		t.Errorf("expected total income 1000000, got %v", sum["total_income"])
	}
}

func TestLedgerFlow_ExpenseLeavesVaultAlone(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "spender@test.com", "password123")

	rec := app.request("POST", "/api/v1/transactions",
		`{"type":"income","amount":1000000}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.request("POST", "/api/v1/transactions",
		`{"type":"expense","amount":250000,"category":"food","is_impulse":true}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)

	profile := result["profile"].(map[string]interface{})
	if profile["safe_balance"].(float64) != 450000 {
		t.Errorf("expected safe balance 450000, got %v", profile["safe_balance"])
	}
	if profile["tax_vault"].(float64) != 300000 {
		t.Errorf("expense must not touch the vault, got %v", profile["tax_vault"])
	}
	if profile["total_expenses"].(float64) != 250000 {
		t.Errorf("expected total expenses 250000, got %v", profile["total_expenses"])
	}
}

func TestLedgerFlow_ListNewestFirst(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "lister@test.com", "password123")

	for _, body := range []string{
		`{"type":"income","amount":100,"occurred_at":"2026-08-01T10:00:00Z"}`,
		`{"type":"expense","amount":50,"occurred_at":"2026-08-15T10:00:00Z"}`,
		`{"type":"income","amount":200,"occurred_at":"2026-08-10T10:00:00Z"}`,
	} {
		rec := app.request("POST", "/api/v1/transactions", body, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	}

	rec := app.request("GET", "/api/v1/transactions", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	if result["total_items"].(float64) != 3 {
		t.Fatalf("expected 3 transactions, got %v", result["total_items"])
	}
	data := result["data"].([]interface{})
	first := data[0].(map[string]interface{})
	if first["amount"].(float64) != 50 {
		t.Errorf("expected the Aug 15 expense first, got %v", first)
	}
}

func TestLedgerFlow_RejectsBadInput(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "strict@test.com", "password123")

	cases := []struct {
		name string
		body string
	}{
		{"unknown type", `{"type":"transfer","amount":100}`},
		{"zero amount", `{"type":"income","amount":0}`},
		{"negative amount", `{"type":"expense","amount":-100}`},
		{"missing type", `{"amount":100}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := app.request("POST", "/api/v1/transactions", tc.body, token)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}
