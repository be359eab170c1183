package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rupeeready/internal/alerts"
	apperrors "rupeeready/internal/errors"
	"rupeeready/internal/googleauth"
	"rupeeready/internal/logger"
	"rupeeready/internal/middleware"
	"rupeeready/internal/models"
	"rupeeready/internal/profilestore"
)

// SessionService implements SessionServicer on top of GORM and the profile
// store. Every sign-in path is synchronous: the response already carries the
// profile (or a nil profile when it could not be read in time).
type SessionService struct {
	db       *gorm.DB
	profiles *profilestore.Store
	verifier googleauth.TokenVerifier
	alerts   *alerts.Service
	timeout  time.Duration
}

// NewSessionService creates a SessionService. timeout is the sliding
// inactivity window applied to sessions.
func NewSessionService(db *gorm.DB, profiles *profilestore.Store, verifier googleauth.TokenVerifier, alertSvc *alerts.Service, timeout time.Duration) *SessionService {
	return &SessionService{
		db:       db,
		profiles: profiles,
		verifier: verifier,
		alerts:   alertSvc,
		timeout:  timeout,
	}
}

// Register creates a password identity with a zeroed profile and signs it in.
func (s *SessionService) Register(input RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)

	var existing models.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, apperrors.ErrDuplicateEmail
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:       email,
		Password:    string(hashed),
		DisplayName: input.DisplayName,
		Provider:    models.AuthProviderPassword,
		IsActive:    true,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if _, err := s.profiles.Create(user.ID); err != nil {
		return nil, err
	}

	return s.signIn(user, true)
}

// Login authenticates a password identity.
func (s *SessionService) Login(input LoginInput) (*AuthResult, error) {
	var user models.User
	err := s.db.Where("email = ?", normalizeEmail(input.Email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if user.Provider != models.AuthProviderPassword || user.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.signIn(&user, false)
}

// LoginWithGoogle verifies a Google ID token and signs the identity in,
// creating the user and profile on first sight.
func (s *SessionService) LoginWithGoogle(ctx context.Context, idToken string) (*AuthResult, error) {
	claims, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}

	isNew := false
	var user models.User
	err = s.db.Where("email = ?", normalizeEmail(claims.Email)).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		user = models.User{
			Email:       normalizeEmail(claims.Email),
			DisplayName: claims.Name,
			PhotoURL:    claims.Picture,
			Provider:    models.AuthProviderGoogle,
			IsActive:    true,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if _, err := s.profiles.Create(user.ID); err != nil {
			return nil, err
		}
		isNew = true
	}

	return s.signIn(&user, isNew)
}

// signIn creates the session, loads the profile, and issues a token. The
// whole sign-in state arrives in one response; a profile that could not be
// read does not fail the sign-in.
func (s *SessionService) signIn(user *models.User, isNew bool) (*AuthResult, error) {
	now := time.Now()
	session := &models.Session{
		UserID:         user.ID,
		ExpiresAt:      now.Add(s.timeout),
		LastActivityAt: now,
	}
	if err := s.db.Create(session).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	token, err := middleware.GenerateToken(user, session.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	profile, err := s.profiles.Fetch(user.ID)
	if err != nil {
		logger.Get().Warnw("profile fetch failed during sign-in", "user_id", user.ID, "error", err)
		profile = nil
	}
	if profile != nil {
		s.profiles.StampLastLogin(user.ID)
	}

	return &AuthResult{
		User:      user,
		Profile:   profile,
		Session:   session,
		Token:     token,
		IsNewUser: isNew,
	}, nil
}

// Logout deletes the session and drops any transient alert state.
func (s *SessionService) Logout(sessionID string) error {
	var session models.Session
	err := s.db.Where("id = ?", sessionID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // already logged out
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Unscoped().Delete(&session).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	s.alerts.Clear(session.UserID)
	return nil
}

// ValidateAndTouch checks the session's sliding window and extends it. An
// expired session is deleted and reported as SESSION_EXPIRED, distinct from
// a session that never existed.
func (s *SessionService) ValidateAndTouch(sessionID string) error {
	var session models.Session
	err := s.db.Where("id = ?", sessionID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUnauthorized
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now()
	if session.Expired(now) {
		if err := s.db.Unscoped().Delete(&session).Error; err != nil {
			logger.Get().Warnw("failed to delete expired session", "session_id", sessionID, "error", err)
		}
		s.alerts.Clear(session.UserID)
		return apperrors.ErrSessionExpired
	}

	err = s.db.Model(&session).Updates(map[string]interface{}{
		"expires_at":       now.Add(s.timeout),
		"last_activity_at": now,
	}).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetProfile loads the caller's profile. Returns (nil, nil) when no profile
// is readable yet.
func (s *SessionService) GetProfile(userID string) (*models.Profile, error) {
	if userID == "" {
		return nil, apperrors.ErrNotLoggedIn
	}
	return s.profiles.Fetch(userID)
}

// UpdateProfile applies a partial update. With SkipRefresh the response is
// the pre-update snapshot with the changes merged locally, saving a re-read;
// otherwise the profile is re-read after the write.
func (s *SessionService) UpdateProfile(userID string, input ProfileUpdateInput) (*models.Profile, error) {
	if userID == "" {
		return nil, apperrors.ErrNotLoggedIn
	}

	current, err := s.profiles.Fetch(userID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperrors.ErrProfileNotFound
	}

	updates := make(map[string]interface{})
	if input.NotificationsEnabled != nil {
		updates["notifications_enabled"] = *input.NotificationsEnabled
		current.NotificationsEnabled = *input.NotificationsEnabled
	}
	if input.DarkMode != nil {
		updates["dark_mode"] = *input.DarkMode
		current.DarkMode = *input.DarkMode
	}
	if input.OnboardingCompleted != nil {
		updates["onboarding_completed"] = *input.OnboardingCompleted
		current.OnboardingCompleted = *input.OnboardingCompleted
	}
	if input.UserType != nil {
		updates["user_type"] = *input.UserType
		current.UserType = input.UserType
	}
	if input.MonthlyIncome != nil {
		updates["monthly_income"] = *input.MonthlyIncome
		current.MonthlyIncome = input.MonthlyIncome
	}

	if err := s.profiles.Update(userID, updates); err != nil {
		return nil, err
	}

	if input.SkipRefresh {
		return current, nil
	}
	return s.profiles.Fetch(userID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
