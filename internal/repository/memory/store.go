// Package memory implements the stores in process memory. Data is lost on restart.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/videobite-server/internal/model"
)

var (
	_ model.UserStore    = (*UserRepository)(nil)
	_ model.SummaryStore = (*SummaryRepository)(nil)
)

type UserRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]model.User
	byEmail map[string]uuid.UUID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[uuid.UUID]model.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return user, nil
}

func (r *UserRepository) Create(_ context.Context, user model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, ok := r.byEmail[email]; ok {
		return model.User{}, model.ErrConflict
	}
	if _, ok := r.byID[user.ID]; ok {
		return model.User{}, model.ErrConflict
	}

	r.byID[user.ID] = user
	r.byEmail[email] = user.ID
	return user, nil
}

type SummaryRepository struct {
	mu        sync.RWMutex
	byID      map[uuid.UUID]model.VideoSummary
	byVideoID map[string]uuid.UUID
	now       func() time.Time
}

func NewSummaryRepository() *SummaryRepository {
	return &SummaryRepository{
		byID:      make(map[uuid.UUID]model.VideoSummary),
		byVideoID: make(map[string]uuid.UUID),
		now:       time.Now,
	}
}

// Ping always succeeds; the in-memory store is never unreachable.
func (r *SummaryRepository) Ping(_ context.Context) error {
	return nil
}

func (r *SummaryRepository) Create(_ context.Context, summary model.VideoSummary) (model.VideoSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byVideoID[summary.VideoID]; ok {
		return model.VideoSummary{}, model.ErrConflict
	}

	r.byID[summary.ID] = clone(summary)
	r.byVideoID[summary.VideoID] = summary.ID
	return clone(summary), nil
}

func (r *SummaryRepository) GetByID(_ context.Context, id uuid.UUID) (model.VideoSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return model.VideoSummary{}, model.ErrNotFound
	}
	return clone(s), nil
}

func (r *SummaryRepository) GetByVideoID(_ context.Context, videoID string) (model.VideoSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byVideoID[videoID]
	if !ok {
		return model.VideoSummary{}, model.ErrNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *SummaryRepository) GetByOwnerID(_ context.Context, ownerID uuid.UUID) ([]model.VideoSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []model.VideoSummary{}
	for _, s := range r.byID {
		if s.OwnerID == ownerID && !s.OwnerAnonymous {
			result = append(result, clone(s))
		}
	}

	slices.SortFunc(result, func(a, b model.VideoSummary) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return result, nil
}

func (r *SummaryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return model.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byVideoID, s.VideoID)
	return nil
}

func (r *SummaryRepository) ToggleFavorite(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return false, model.ErrNotFound
	}
	s.IsFavorite = !s.IsFavorite
	s.UpdatedAt = r.now()
	r.byID[id] = s
	return s.IsFavorite, nil
}

func (r *SummaryRepository) SetOwner(_ context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return model.ErrNotFound
	}
	if !s.OwnerAnonymous {
		return model.ErrConflict
	}
	s.OwnerID = ownerID
	s.OwnerAnonymous = false
	s.UpdatedAt = r.now()
	r.byID[id] = s
	return nil
}

func clone(s model.VideoSummary) model.VideoSummary {
	s.KeyPoints = slices.Clone(s.KeyPoints)
	s.ImportantTerms = slices.Clone(s.ImportantTerms)
	return s
}
