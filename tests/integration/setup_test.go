package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"rupeeready/internal/alerts"
	"rupeeready/internal/handlers"
	"rupeeready/internal/logger"
	"rupeeready/internal/middleware"
	"rupeeready/internal/models"
	"rupeeready/internal/profilestore"
	"rupeeready/internal/services"
	"rupeeready/internal/spendguard"
	"rupeeready/internal/summary"
	"rupeeready/internal/validator"
)

const (
	testWebhookKey  = "test-webhook-key"
	upcomingBills   = 721950  // ₹7,219.50
	lowBalanceLimit = 1000000 // ₹10,000
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Profile{},
		&models.Session{},
		&models.Transaction{},
		&models.Goal{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()
	return setupAppWithGuard(t, "")
}

// setupAppWithGuard wires a spending pre-check client pointing at guardURL.
func setupAppWithGuard(t *testing.T, guardURL string) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	profiles := profilestore.New(db, 3, time.Millisecond)
	engine := summary.NewEngine(summary.StaticBills(upcomingBills))
	alertService := alerts.NewService(alerts.NewGenerator(lowBalanceLimit))

	var guard *spendguard.Client
	if guardURL != "" {
		guard = spendguard.NewClient(guardURL, 100*time.Millisecond)
	}

	sessionService := services.NewSessionService(db, profiles, nil, alertService, 24*time.Hour)
	ledgerService := services.NewLedgerService(db, profiles, guard, engine, alertService, 30, 100*time.Millisecond)

	// Handlers
	authHandler := handlers.NewAuthHandler(sessionService)
	profileHandler := handlers.NewProfileHandler(sessionService)
	summaryHandler := handlers.NewSummaryHandler(sessionService, engine)
	alertHandler := handlers.NewAlertHandler(ledgerService, alertService)
	transactionHandler := handlers.NewTransactionHandler(ledgerService)
	goalHandler := handlers.NewGoalHandler(ledgerService)
	vaultHandler := handlers.NewVaultHandler(ledgerService)
	webhookHandler := handlers.NewWebhookHandler(ledgerService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	webhooks := v1.Group("/webhook")
	webhooks.Use(middleware.WebhookAuthMiddleware(testWebhookKey))
	webhooks.POST("/income", webhookHandler.ReceiveIncome)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(sessionService))

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/profile", profileHandler.GetProfile)
	protected.PATCH("/profile", profileHandler.UpdateProfile)
	protected.GET("/summary", summaryHandler.GetSummary)

	alertRoutes := protected.Group("/alerts")
	alertRoutes.GET("", alertHandler.ListAlerts)
	alertRoutes.POST("/refresh", alertHandler.RefreshAlerts)
	alertRoutes.DELETE("/:id", alertHandler.DismissAlert)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.ListTransactions)

	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.ListGoals)
	goals.PATCH("/:id", goalHandler.UpdateGoal)

	vault := protected.Group("/vault")
	vault.POST("/move", vaultHandler.MoveToVault)
	vault.POST("/release", vaultHandler.ReleaseFromVault)
	vault.POST("/pay-tax", vaultHandler.PayTaxFromVault)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// webhookRequest posts to a webhook route with the given API key.
func (app *testApp) webhookRequest(path, body, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the token and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (token, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"display_name":"Test User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(string)
}
