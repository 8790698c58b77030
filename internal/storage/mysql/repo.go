package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"barzinhos/internal/domain"
)

func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullF64(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	f := n.Float64
	return &f
}

type scanner interface{ Scan(dest ...any) error }

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Repo implements the establishment and user repositories on MySQL.
type Repo struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Repo {
	return &Repo{db: db, now: func() time.Time { return time.Now().UTC().Truncate(time.Second) }}
}

// withTx commits when fn succeeds and rolls back otherwise.
func (r *Repo) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func scanEstablishment(s scanner, extra ...any) (domain.Establishment, error) {
	var e domain.Establishment
	var lat, lon sql.NullFloat64
	var plan string
	dest := []any{
		&e.ID, &e.UserID, &e.Name, &e.Description, &e.Address, &e.Neighborhood,
		&e.Phone, &e.WhatsApp, &e.Type, &e.IsOpen, &lat, &lon,
		&e.ImageURL, &e.MenuURL, &e.Website, &e.Instagram, &plan, &e.IsApproved,
		&e.CreatedAt, &e.UpdatedAt,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return domain.Establishment{}, err
	}
	e.Latitude, e.Longitude = nullF64(lat), nullF64(lon)
	e.PlanType = domain.PlanTier(plan)
	return e, nil
}

func insertEstablishment(ctx context.Context, db execer, e domain.Establishment) (int64, error) {
	res, err := db.ExecContext(ctx, insertEstablishmentSQL,
		e.UserID,
		e.Name,
		e.Description,
		e.Address,
		e.Neighborhood,
		e.Phone,
		e.WhatsApp,
		e.Type,
		e.IsOpen,
		valF64(e.Latitude),
		valF64(e.Longitude),
		e.ImageURL,
		e.MenuURL,
		e.Website,
		e.Instagram,
		string(e.PlanType),
		e.IsApproved,
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err != nil {
		return 0, translate(err)
	}
	return res.LastInsertId()
}

func (r *Repo) stamp(e *domain.Establishment) {
	now := r.now()
	e.CreatedAt, e.UpdatedAt = now, now
	if e.PlanType == "" {
		e.PlanType = domain.PlanBronze
	}
}

func (r *Repo) CreateEstablishment(ctx context.Context, e domain.Establishment) (domain.Establishment, error) {
	r.stamp(&e)
	id, err := insertEstablishment(ctx, r.db, e)
	if err != nil {
		return domain.Establishment{}, err
	}
	e.ID = id
	return e, nil
}

func (r *Repo) UpdateEstablishment(ctx context.Context, id int64, p domain.EstablishmentPatch) (domain.Establishment, error) {
	var out domain.Establishment
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		e, err := scanEstablishment(tx.QueryRowContext(ctx, lockEstablishmentSQL, id))
		if err != nil {
			return translate(err)
		}
		p.Apply(&e)
		e.UpdatedAt = r.now()
		if _, err := tx.ExecContext(ctx, updateEstablishmentSQL,
			e.Name, e.Description, e.Address, e.Neighborhood, e.Phone, e.WhatsApp,
			e.Type, e.IsOpen, valF64(e.Latitude), valF64(e.Longitude), e.ImageURL, e.MenuURL,
			e.Website, e.Instagram, string(e.PlanType), e.IsApproved, e.UpdatedAt,
			id,
		); err != nil {
			return translate(err)
		}
		out = e
		return nil
	})
	return out, err
}

func (r *Repo) DeleteEstablishment(ctx context.Context, id int64) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteReviewsByEstablishmentSQL, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, deleteImagesByEstablishmentSQL, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, deleteEstablishmentSQL, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *Repo) CreateReview(ctx context.Context, rv domain.Review) (domain.Review, error) {
	rv.CreatedAt = r.now()
	res, err := r.db.ExecContext(ctx, insertReviewSQL,
		rv.EstablishmentID, rv.UserName, rv.UserEmail, rv.Rating, rv.Comment, rv.CreatedAt)
	if err != nil {
		return domain.Review{}, translate(err)
	}
	if rv.ID, err = res.LastInsertId(); err != nil {
		return domain.Review{}, err
	}
	return rv, nil
}

func (r *Repo) CreateImage(ctx context.Context, img domain.Image) (domain.Image, error) {
	img.CreatedAt = r.now()
	res, err := r.db.ExecContext(ctx, insertImageSQL, img.EstablishmentID, img.URL, img.IsPrimary, img.CreatedAt)
	if err != nil {
		return domain.Image{}, translate(err)
	}
	if img.ID, err = res.LastInsertId(); err != nil {
		return domain.Image{}, err
	}
	return img, nil
}

func (r *Repo) GetEstablishment(ctx context.Context, id int64) (domain.Establishment, error) {
	e, err := scanEstablishment(r.db.QueryRowContext(ctx, getEstablishmentSQL, id))
	if err != nil {
		return domain.Establishment{}, translate(err)
	}
	return e, nil
}

func (r *Repo) ListEstablishments(ctx context.Context, f domain.EstablishmentFilter) ([]domain.EstablishmentView, error) {
	q, args := buildListQuery(f)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.EstablishmentView{}
	for rows.Next() {
		var sum, count int
		e, err := scanEstablishment(rows, &sum, &count)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.EstablishmentView{Establishment: e, Rating: domain.NewRatingSummary(sum, count)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) ListReviews(ctx context.Context, establishmentID int64) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsSQL, establishmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Review{}
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.EstablishmentID, &rv.UserName, &rv.UserEmail, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) ListImages(ctx context.Context, establishmentID int64) ([]domain.Image, error) {
	rows, err := r.db.QueryContext(ctx, listImagesSQL, establishmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Image{}
	for rows.Next() {
		var img domain.Image
		if err := rows.Scan(&img.ID, &img.EstablishmentID, &img.URL, &img.IsPrimary, &img.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

func (r *Repo) DistinctNeighborhoods(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, distinctNeighborhoodsSQL)
}

func (r *Repo) DistinctTypes(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, distinctTypesSQL)
}

func (r *Repo) distinct(ctx context.Context, q string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// collation order differs from byte order; callers expect the latter
	sort.Strings(out)
	return out, nil
}

func (r *Repo) Stats(ctx context.Context) (domain.Stats, error) {
	var s domain.Stats
	if err := r.db.QueryRowContext(ctx, statsSQL).Scan(&s.Total, &s.Approved, &s.Open); err != nil {
		return domain.Stats{}, fmt.Errorf("stats: %w", err)
	}
	return s, nil
}
