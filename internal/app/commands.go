package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"barzinhos/internal/domain"
)

// EstablishmentService runs the write paths and their authorization rules.
type EstablishmentService struct {
	repo   domain.EstablishmentRepository
	cache  domain.Cache
	notify *NotificationService
}

func NewEstablishmentService(r domain.EstablishmentRepository, c domain.Cache, n *NotificationService) *EstablishmentService {
	return &EstablishmentService{repo: r, cache: c, notify: n}
}

// Create stores e owned by the caller. Only admins may pick another owner or
// publish it directly; everyone else creates a pending establishment.
func (s *EstablishmentService) Create(ctx context.Context, p domain.Principal, e domain.Establishment) (domain.Establishment, error) {
	if !p.IsAdmin() || e.UserID == 0 {
		e.UserID = p.UserID
	}
	if !p.IsAdmin() {
		e.IsApproved = false
	}
	if err := e.Validate(); err != nil {
		return domain.Establishment{}, err
	}
	out, err := s.repo.CreateEstablishment(ctx, e)
	if err != nil {
		return domain.Establishment{}, err
	}
	s.invalidate(ctx)
	return out, nil
}

func (s *EstablishmentService) Update(ctx context.Context, p domain.Principal, id int64, patch domain.EstablishmentPatch) (domain.Establishment, error) {
	if err := patch.Validate(); err != nil {
		return domain.Establishment{}, err
	}
	cur, err := s.authorize(ctx, p, id)
	if err != nil {
		return domain.Establishment{}, err
	}
	if patch.IsApproved != nil && !p.IsAdmin() {
		return domain.Establishment{}, domain.ErrForbidden
	}
	if patch.Empty() {
		return cur, nil
	}
	out, err := s.repo.UpdateEstablishment(ctx, id, patch)
	if err != nil {
		return domain.Establishment{}, err
	}
	s.invalidate(ctx)
	return out, nil
}

// SetApproval flips the visibility gate and tells the owner about the outcome.
func (s *EstablishmentService) SetApproval(ctx context.Context, p domain.Principal, id int64, approved bool) (domain.Establishment, error) {
	if !p.IsAdmin() {
		return domain.Establishment{}, domain.ErrForbidden
	}
	out, err := s.repo.UpdateEstablishment(ctx, id, domain.EstablishmentPatch{IsApproved: &approved})
	if err != nil {
		return domain.Establishment{}, err
	}
	s.invalidate(ctx)
	s.notify.notifyBestEffort(ctx, ApprovalNotification(RecipientOf(out), approved))
	return out, nil
}

func (s *EstablishmentService) Delete(ctx context.Context, p domain.Principal, id int64) error {
	if _, err := s.authorize(ctx, p, id); err != nil {
		return err
	}
	if err := s.repo.DeleteEstablishment(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// AddReview is public; the rating is checked before anything is stored.
func (s *EstablishmentService) AddReview(ctx context.Context, r domain.Review) (domain.Review, error) {
	if err := r.Validate(); err != nil {
		return domain.Review{}, err
	}
	if _, err := s.repo.GetEstablishment(ctx, r.EstablishmentID); err != nil {
		return domain.Review{}, err
	}
	return s.repo.CreateReview(ctx, r)
}

func (s *EstablishmentService) AddImage(ctx context.Context, p domain.Principal, img domain.Image) (domain.Image, error) {
	if err := img.Validate(); err != nil {
		return domain.Image{}, err
	}
	if _, err := s.authorize(ctx, p, img.EstablishmentID); err != nil {
		return domain.Image{}, err
	}
	return s.repo.CreateImage(ctx, img)
}

// authorize loads the establishment and checks the caller may manage it.
func (s *EstablishmentService) authorize(ctx context.Context, p domain.Principal, id int64) (domain.Establishment, error) {
	e, err := s.repo.GetEstablishment(ctx, id)
	if err != nil {
		return domain.Establishment{}, err
	}
	if !p.CanManage(e.UserID) {
		return domain.Establishment{}, domain.ErrForbidden
	}
	return e, nil
}

func (s *EstablishmentService) invalidate(ctx context.Context) { invalidateDerived(ctx, s.cache) }

// invalidateDerived drops the cached lookups derived from the establishment
// table. Failures are logged; the entries expire with their TTL.
func invalidateDerived(ctx context.Context, c domain.Cache) {
	if c == nil {
		return
	}
	if err := c.Del(ctx, derivedKeys...); err != nil {
		log.Warn().Err(err).Strs("keys", derivedKeys).Msg("cache invalidation failed")
	}
}
