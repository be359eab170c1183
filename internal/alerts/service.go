package alerts

import (
	"sync"

	apperrors "rupeeready/internal/errors"
	"rupeeready/internal/models"
	"rupeeready/internal/summary"
)

// Service holds the current in-memory alert list per user. Refresh replaces
// the list wholesale, which also forgets any dismissals; that quirk is
// intentional and covered by tests.
type Service struct {
	mu        sync.Mutex
	generator *Generator
	current   map[string][]Alert
}

// NewService creates an alert service around the given generator.
func NewService(generator *Generator) *Service {
	return &Service{
		generator: generator,
		current:   make(map[string][]Alert),
	}
}

// Refresh regenerates the alert list for a user from the latest summary and
// transaction window, replacing whatever was there before.
func (s *Service) Refresh(userID string, sum summary.Summary, transactions []models.Transaction) []Alert {
	generated := s.generator.Generate(sum, transactions)

	s.mu.Lock()
	s.current[userID] = generated
	s.mu.Unlock()

	return generated
}

// List returns the current alert list for a user.
func (s *Service) List(userID string) []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	alerts := s.current[userID]
	out := make([]Alert, len(alerts))
	copy(out, alerts)
	return out
}

// Dismiss removes an alert from the current list only. It does not suppress
// regeneration: the same alert returns on the next Refresh if its condition
// still holds.
func (s *Service) Dismiss(userID, alertID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	alerts := s.current[userID]
	for i, a := range alerts {
		if a.ID == alertID {
			s.current[userID] = append(alerts[:i:i], alerts[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrAlertNotFound
}

// Clear drops all alert state for a user, e.g. on logout.
func (s *Service) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.current, userID)
}
