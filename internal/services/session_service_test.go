package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"rupeeready/internal/alerts"
	"rupeeready/internal/googleauth"
	"rupeeready/internal/models"
	"rupeeready/internal/profilestore"
	"rupeeready/internal/testutil"
)

type fakeVerifier struct {
	claims *googleauth.Claims
	err    error
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (*googleauth.Claims, error) {
	return f.claims, f.err
}

func newSessionService(t *testing.T, verifier googleauth.TokenVerifier) (*SessionService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	profiles := profilestore.New(db, 3, time.Millisecond)
	alertSvc := alerts.NewService(alerts.NewGenerator(1000000))
	svc := NewSessionService(db, profiles, verifier, alertSvc, 24*time.Hour)
	return svc, db
}

func TestRegister(t *testing.T) {
	t.Run("creates user, profile, and session in one response", func(t *testing.T) {
		svc, _ := newSessionService(t, nil)

		result, err := svc.Register(RegisterInput{
			Email:       "new@test.com",
			Password:    "password123",
			DisplayName: "New User",
		})
		testutil.AssertNoError(t, err)

		if result.User.Email != "new@test.com" {
			t.Errorf("unexpected email %s", result.User.Email)
		}
		if result.User.Provider != models.AuthProviderPassword {
			t.Errorf("expected password provider, got %s", result.User.Provider)
		}
		if result.Profile == nil {
			t.Fatal("expected a profile in the registration response")
		}
		if result.Profile.SafeBalance != 0 || result.Profile.TaxVault != 0 {
			t.Errorf("expected zeroed balances, got %d / %d", result.Profile.SafeBalance, result.Profile.TaxVault)
		}
		if result.Token == "" {
			t.Error("expected a token")
		}
		if !result.IsNewUser {
			t.Error("expected is_new_user")
		}
		if until := time.Until(result.Session.ExpiresAt); until < 23*time.Hour {
			t.Errorf("session window too short: %s", until)
		}
	})

	t.Run("normalizes email case", func(t *testing.T) {
		svc, _ := newSessionService(t, nil)

		result, err := svc.Register(RegisterInput{Email: "  Mixed@Test.Com ", Password: "password123"})
		testutil.AssertNoError(t, err)
		if result.User.Email != "mixed@test.com" {
			t.Errorf("expected normalized email, got %s", result.User.Email)
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		svc, _ := newSessionService(t, nil)

		_, err := svc.Register(RegisterInput{Email: "dup@test.com", Password: "password123"})
		testutil.AssertNoError(t, err)

		_, err = svc.Register(RegisterInput{Email: "DUP@test.com", Password: "password123"})
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials sign in", func(t *testing.T) {
		svc, _ := newSessionService(t, nil)
		_, err := svc.Register(RegisterInput{Email: "login@test.com", Password: "password123"})
		testutil.AssertNoError(t, err)

		result, err := svc.Login(LoginInput{Email: "login@test.com", Password: "password123"})
		testutil.AssertNoError(t, err)
		if result.IsNewUser {
			t.Error("login must not report a new user")
		}
		if result.Profile == nil {
			t.Error("expected the profile in the login response")
		}
	})

	t.Run("wrong password fails", func(t *testing.T) {
		svc, _ := newSessionService(t, nil)
		_, err := svc.Register(RegisterInput{Email: "wrongpw@test.com", Password: "password123"})
		testutil.AssertNoError(t, err)

		_, err = svc.Login(LoginInput{Email: "wrongpw@test.com", Password: "nope"})
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown email fails the same way", func(t *testing.T) {
		svc, _ := newSessionService(t, nil)
		_, err := svc.Login(LoginInput{Email: "ghost@test.com", Password: "password123"})
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("federated identity cannot use password login", func(t *testing.T) {
		verifier := &fakeVerifier{claims: &googleauth.Claims{Subject: "g-1", Email: "fed@test.com", Name: "Fed"}}
		svc, _ := newSessionService(t, verifier)

		_, err := svc.LoginWithGoogle(context.Background(), "token")
		testutil.AssertNoError(t, err)

		_, err = svc.Login(LoginInput{Email: "fed@test.com", Password: "anything"})
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestLoginWithGoogle(t *testing.T) {
	t.Run("first sight creates user and profile", func(t *testing.T) {
		verifier := &fakeVerifier{claims: &googleauth.Claims{
			Subject: "g-42", Email: "google@test.com", Name: "G User", Picture: "https://example.com/p.jpg",
		}}
		svc, _ := newSessionService(t, verifier)

		result, err := svc.LoginWithGoogle(context.Background(), "token")
		testutil.AssertNoError(t, err)
		if !result.IsNewUser {
			t.Error("expected is_new_user on first federated sign-in")
		}
		if result.User.Provider != models.AuthProviderGoogle {
			t.Errorf("expected google provider, got %s", result.User.Provider)
		}
		if result.User.Password != "" {
			t.Error("federated identity must not carry a password hash")
		}
		if result.Profile == nil {
			t.Error("expected a profile")
		}
	})

	t.Run("second sign-in reuses the identity", func(t *testing.T) {
		verifier := &fakeVerifier{claims: &googleauth.Claims{Subject: "g-7", Email: "repeat@test.com"}}
		svc, db := newSessionService(t, verifier)

		_, err := svc.LoginWithGoogle(context.Background(), "token")
		testutil.AssertNoError(t, err)
		result, err := svc.LoginWithGoogle(context.Background(), "token")
		testutil.AssertNoError(t, err)
		if result.IsNewUser {
			t.Error("repeat sign-in must not report a new user")
		}

		var count int64
		testutil.AssertNoError(t, db.Model(&models.User{}).Where("email = ?", "repeat@test.com").Count(&count).Error)
		if count != 1 {
			t.Errorf("expected a single user, got %d", count)
		}
	})

	t.Run("verification failure aborts sign-in", func(t *testing.T) {
		verifier := &fakeVerifier{err: context.DeadlineExceeded}
		svc, _ := newSessionService(t, verifier)

		if _, err := svc.LoginWithGoogle(context.Background(), "token"); err == nil {
			t.Error("expected an error when the token cannot be verified")
		}
	})
}

func TestValidateAndTouch(t *testing.T) {
	t.Run("extends the sliding window", func(t *testing.T) {
		svc, db := newSessionService(t, nil)
		user := testutil.CreateTestUser(t, db)
		session := testutil.CreateTestSession(t, db, user.ID, time.Minute)

		testutil.AssertNoError(t, svc.ValidateAndTouch(session.ID))

		var touched models.Session
		testutil.AssertNoError(t, db.First(&touched, "id = ?", session.ID).Error)
		if until := time.Until(touched.ExpiresAt); until < 23*time.Hour {
			t.Errorf("expected the window pushed out, got %s", until)
		}
	})

	t.Run("expired session is deleted and reported distinctly", func(t *testing.T) {
		svc, db := newSessionService(t, nil)
		user := testutil.CreateTestUser(t, db)
		session := testutil.CreateTestSession(t, db, user.ID, -time.Minute)

		testutil.AssertAppError(t, svc.ValidateAndTouch(session.ID), "SESSION_EXPIRED")

		var count int64
		testutil.AssertNoError(t, db.Unscoped().Model(&models.Session{}).Where("id = ? AND deleted_at IS NULL", session.ID).Count(&count).Error)
		if count != 0 {
			t.Error("expired session should be deleted")
		}
	})

	t.Run("unknown session is unauthorized", func(t *testing.T) {
		svc, _ := newSessionService(t, nil)
		testutil.AssertAppError(t, svc.ValidateAndTouch("00000000-0000-7000-8000-000000000000"), "UNAUTHORIZED")
	})
}

func TestLogout(t *testing.T) {
	svc, _ := newSessionService(t, nil)
	result, err := svc.Register(RegisterInput{Email: "bye@test.com", Password: "password123"})
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, svc.Logout(result.Session.ID))
	testutil.AssertAppError(t, svc.ValidateAndTouch(result.Session.ID), "UNAUTHORIZED")

	// Logging out twice is harmless.
	testutil.AssertNoError(t, svc.Logout(result.Session.ID))
}

func TestUpdateProfile(t *testing.T) {
	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		svc, _ := newSessionService(t, nil)
		result, err := svc.Register(RegisterInput{Email: "settings@test.com", Password: "password123"})
		testutil.AssertNoError(t, err)

		dark := false
		profile, err := svc.UpdateProfile(result.User.ID, ProfileUpdateInput{DarkMode: &dark})
		testutil.AssertNoError(t, err)
		if profile.DarkMode {
			t.Error("dark mode should be off")
		}
		if !profile.NotificationsEnabled {
			t.Error("notifications flag must be untouched")
		}
	})

	t.Run("skip refresh returns the locally merged state", func(t *testing.T) {
		svc, db := newSessionService(t, nil)
		result, err := svc.Register(RegisterInput{Email: "merge@test.com", Password: "password123"})
		testutil.AssertNoError(t, err)

		done := true
		userType := "freelancer"
		income := int64(5000000)
		profile, err := svc.UpdateProfile(result.User.ID, ProfileUpdateInput{
			OnboardingCompleted: &done,
			UserType:            &userType,
			MonthlyIncome:       &income,
			SkipRefresh:         true,
		})
		testutil.AssertNoError(t, err)
		if !profile.OnboardingCompleted || profile.UserType == nil || *profile.UserType != "freelancer" {
			t.Errorf("merged state missing updates: %+v", profile)
		}

		// The write itself must still be durable.
		var stored models.Profile
		testutil.AssertNoError(t, db.First(&stored, "user_id = ?", result.User.ID).Error)
		if !stored.OnboardingCompleted {
			t.Error("update must be persisted even with skip refresh")
		}
	})

	t.Run("missing profile reports not found", func(t *testing.T) {
		svc, db := newSessionService(t, nil)
		user := testutil.CreateTestUser(t, db)

		dark := false
		_, err := svc.UpdateProfile(user.ID, ProfileUpdateInput{DarkMode: &dark})
		testutil.AssertAppError(t, err, "PROFILE_NOT_FOUND")
	})

	t.Run("empty user id is not logged in", func(t *testing.T) {
		svc, _ := newSessionService(t, nil)
		_, err := svc.GetProfile("")
		testutil.AssertAppError(t, err, "NOT_LOGGED_IN")
	})
}
