package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"barzinhos/internal/domain"
)

// Cache keys for the read-mostly lookups. Ratings are never cached.
const (
	keyNeighborhoods = "taxonomy:neighborhoods"
	keyTypes         = "taxonomy:types"
	keyStats         = "establishments:stats"
)

var derivedKeys = []string{keyNeighborhoods, keyTypes, keyStats}

type QueryService struct {
	repo     domain.EstablishmentRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

// NewQueryService accepts a nil cache; every read then goes to the repository.
func NewQueryService(r domain.EstablishmentRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) List(ctx context.Context, f domain.EstablishmentFilter) ([]domain.EstablishmentView, error) {
	return s.repo.ListEstablishments(ctx, f)
}

// Get returns the establishment with its images, reviews and rating summary.
func (s *QueryService) Get(ctx context.Context, id int64) (domain.EstablishmentView, error) {
	e, err := s.repo.GetEstablishment(ctx, id)
	if err != nil {
		return domain.EstablishmentView{}, err
	}
	imgs, err := s.repo.ListImages(ctx, id)
	if err != nil {
		return domain.EstablishmentView{}, err
	}
	revs, err := s.repo.ListReviews(ctx, id)
	if err != nil {
		return domain.EstablishmentView{}, err
	}
	return domain.EstablishmentView{
		Establishment: e,
		Rating:        domain.Summarize(revs),
		Images:        imgs,
		Reviews:       revs,
	}, nil
}

func (s *QueryService) Neighborhoods(ctx context.Context) ([]string, error) {
	return readThrough(ctx, s, keyNeighborhoods, s.repo.DistinctNeighborhoods)
}

func (s *QueryService) Types(ctx context.Context) ([]string, error) {
	return readThrough(ctx, s, keyTypes, s.repo.DistinctTypes)
}

func (s *QueryService) Stats(ctx context.Context) (domain.Stats, error) {
	return readThrough(ctx, s, keyStats, s.repo.Stats)
}

// readThrough serves key from the cache, loading and storing it on a miss.
// Cache failures degrade to a direct load.
func readThrough[T any](ctx context.Context, s *QueryService, key string, load func(context.Context) (T, error)) (T, error) {
	var out T
	if s.cache != nil {
		ok, err := s.cache.Get(ctx, key, &out)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		}
		if ok && err == nil {
			return out, nil
		}
	}
	out, err := load(ctx)
	if err != nil {
		return out, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return out, nil
}
