package store

import (
	"context"
	"sort"
	"sync"

	"academix/internal/certificate/models"
	id "academix/pkg/domain"
	"academix/pkg/platform/sentinel"
)

// InMemoryStore keeps certificates in process memory. Records are copied on
// the way in and out so callers never share state with the store.
type InMemoryStore struct {
	mu           sync.RWMutex
	certificates map[id.CertificateID]models.Certificate
	bySubmission map[id.SubmissionID]id.CertificateID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		certificates: make(map[id.CertificateID]models.Certificate),
		bySubmission: make(map[id.SubmissionID]id.CertificateID),
	}
}

func (s *InMemoryStore) CreateIfAbsent(_ context.Context, cert *models.Certificate) (*models.Certificate, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existingID, ok := s.bySubmission[cert.SubmissionID]; ok {
		existing := s.certificates[existingID]
		return &existing, false, nil
	}
	if _, ok := s.certificates[cert.ID]; ok {
		return nil, false, sentinel.ErrAlreadyExists
	}

	s.certificates[cert.ID] = *cert
	s.bySubmission[cert.SubmissionID] = cert.ID
	stored := *cert
	return &stored, true, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, certID id.CertificateID) (*models.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.certificates[certID]; ok {
		return &c, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) FindBySubmission(_ context.Context, submissionID id.SubmissionID) (*models.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if certID, ok := s.bySubmission[submissionID]; ok {
		c := s.certificates[certID]
		return &c, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) FindByLedgerTokenID(_ context.Context, tokenID string) (*models.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.certificates {
		if tokenID != "" && c.LedgerTokenID == tokenID {
			return &c, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// List returns matching certificates, newest first.
func (s *InMemoryStore) List(_ context.Context, filter models.ListFilter) ([]*models.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Certificate, 0)
	for _, c := range s.certificates {
		if filter.CertificateID != nil && c.ID != *filter.CertificateID {
			continue
		}
		if filter.LedgerTokenID != "" && c.LedgerTokenID != filter.LedgerTokenID {
			continue
		}
		if filter.StudentID != nil && c.StudentID != *filter.StudentID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.UpdatedBefore != nil && !c.UpdatedAt.Before(*filter.UpdatedBefore) {
			continue
		}
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].IssuedAt.After(out[j].IssuedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, cert *models.Certificate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.certificates[cert.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if current.Version != cert.Version {
		return sentinel.ErrInvalidState
	}
	if current.Status == models.StatusRevoked && cert.Status != models.StatusRevoked {
		return sentinel.ErrInvalidState
	}
	if cert.LedgerTokenID != "" {
		for otherID, other := range s.certificates {
			if otherID != cert.ID && other.LedgerTokenID == cert.LedgerTokenID {
				return sentinel.ErrAlreadyExists
			}
		}
	}
	cert.Version++
	s.certificates[cert.ID] = *cert
	return nil
}
