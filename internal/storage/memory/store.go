// Package memory is a process-local implementation of the repositories.
// It backs STORAGE_DRIVER=memory and the HTTP tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"barzinhos/internal/domain"
)

type Store struct {
	mu sync.RWMutex

	now func() time.Time

	nextID         int64
	users          map[int64]domain.User
	establishments map[int64]domain.Establishment
	reviews        map[int64][]domain.Review // by establishment
	images         map[int64][]domain.Image  // by establishment
}

func New() *Store {
	return &Store{
		now:            func() time.Time { return time.Now().UTC() },
		users:          map[int64]domain.User{},
		establishments: map[int64]domain.Establishment{},
		reviews:        map[int64][]domain.Review{},
		images:         map[int64][]domain.Image{},
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// ---- establishments ----

func (s *Store) insertEstablishment(e domain.Establishment) (domain.Establishment, error) {
	if _, ok := s.users[e.UserID]; !ok {
		return domain.Establishment{}, domain.Invalid("user_id", "referenced record does not exist")
	}
	now := s.now()
	e.ID = s.id()
	e.CreatedAt, e.UpdatedAt = now, now
	if e.PlanType == "" {
		e.PlanType = domain.PlanBronze
	}
	s.establishments[e.ID] = e
	return e, nil
}

func (s *Store) CreateEstablishment(ctx context.Context, e domain.Establishment) (domain.Establishment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertEstablishment(e)
}

func (s *Store) UpdateEstablishment(ctx context.Context, id int64, p domain.EstablishmentPatch) (domain.Establishment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.establishments[id]
	if !ok {
		return domain.Establishment{}, domain.ErrNotFound
	}
	p.Apply(&e)
	e.UpdatedAt = s.now()
	s.establishments[id] = e
	return e, nil
}

func (s *Store) DeleteEstablishment(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.establishments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.establishments, id)
	delete(s.reviews, id)
	delete(s.images, id)
	return nil
}

func (s *Store) GetEstablishment(ctx context.Context, id int64) (domain.Establishment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.establishments[id]
	if !ok {
		return domain.Establishment{}, domain.ErrNotFound
	}
	return e, nil
}

func (s *Store) ListEstablishments(ctx context.Context, f domain.EstablishmentFilter) ([]domain.EstablishmentView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.EstablishmentView{}
	for _, e := range s.establishments {
		if !f.Matches(e) {
			continue
		}
		out = append(out, domain.EstablishmentView{Establishment: e, Rating: domain.Summarize(s.reviews[e.ID])})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ---- reviews & images ----

func (s *Store) CreateReview(ctx context.Context, r domain.Review) (domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.establishments[r.EstablishmentID]; !ok {
		return domain.Review{}, domain.ErrNotFound
	}
	if err := domain.ValidateRating(r.Rating); err != nil {
		return domain.Review{}, err
	}
	r.ID = s.id()
	r.CreatedAt = s.now()
	s.reviews[r.EstablishmentID] = append(s.reviews[r.EstablishmentID], r)
	return r, nil
}

func (s *Store) ListReviews(ctx context.Context, establishmentID int64) ([]domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.reviews[establishmentID]
	out := make([]domain.Review, 0, len(src))
	// newest first
	for i := len(src) - 1; i >= 0; i-- {
		out = append(out, src[i])
	}
	return out, nil
}

func (s *Store) CreateImage(ctx context.Context, img domain.Image) (domain.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.establishments[img.EstablishmentID]; !ok {
		return domain.Image{}, domain.ErrNotFound
	}
	img.ID = s.id()
	img.CreatedAt = s.now()
	s.images[img.EstablishmentID] = append(s.images[img.EstablishmentID], img)
	return img, nil
}

func (s *Store) ListImages(ctx context.Context, establishmentID int64) ([]domain.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]domain.Image{}, s.images[establishmentID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].IsPrimary && !out[j].IsPrimary })
	return out, nil
}

// ---- taxonomy & stats ----

func (s *Store) DistinctNeighborhoods(ctx context.Context) ([]string, error) {
	return s.distinct(func(e domain.Establishment) string { return e.Neighborhood }), nil
}

func (s *Store) DistinctTypes(ctx context.Context) ([]string, error) {
	return s.distinct(func(e domain.Establishment) string { return e.Type }), nil
}

func (s *Store) distinct(field func(domain.Establishment) string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[string]struct{}{}
	out := []string{}
	for _, e := range s.establishments {
		v := field(e)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (s *Store) Stats(ctx context.Context) (domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var st domain.Stats
	for _, e := range s.establishments {
		st.Total++
		if e.IsApproved {
			st.Approved++
		}
		if e.IsOpen {
			st.Open++
		}
	}
	return st, nil
}

// ---- users ----

func (s *Store) insertUser(u domain.User) (domain.User, error) {
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return domain.User{}, domain.ErrConflict
		}
	}
	u.ID = s.id()
	u.CreatedAt = s.now()
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertUser(u)
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (s *Store) RegisterOwner(ctx context.Context, u domain.User, e domain.Establishment) (domain.User, domain.Establishment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.insertUser(u)
	if err != nil {
		return domain.User{}, domain.Establishment{}, err
	}
	e.UserID = u.ID
	e, err = s.insertEstablishment(e)
	if err != nil {
		// undo the user so the pair stays atomic
		delete(s.users, u.ID)
		return domain.User{}, domain.Establishment{}, err
	}
	return u, e, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateUser(ctx context.Context, id int64, p domain.UserPatch) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	if p.Email != nil {
		for _, other := range s.users {
			if other.ID != id && other.Email == *p.Email {
				return domain.User{}, domain.ErrConflict
			}
		}
	}
	p.Apply(&u)
	s.users[id] = u
	return u, nil
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.users, id)
	for eid, e := range s.establishments {
		if e.UserID != id {
			continue
		}
		delete(s.establishments, eid)
		delete(s.reviews, eid)
		delete(s.images, eid)
	}
	return nil
}
