package mysql

import (
	"context"
	"database/sql"

	"barzinhos/internal/domain"
)

func scanUser(s scanner) (domain.User, error) {
	var u domain.User
	var role string
	if err := s.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.CreatedAt); err != nil {
		return domain.User{}, translate(err)
	}
	u.Role = domain.Role(role)
	return u, nil
}

func insertUser(ctx context.Context, db execer, u domain.User) (int64, error) {
	res, err := db.ExecContext(ctx, insertUserSQL, u.Username, u.Email, u.PasswordHash, string(u.Role), u.CreatedAt)
	if err != nil {
		return 0, translate(err)
	}
	return res.LastInsertId()
}

func (r *Repo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	u.CreatedAt = r.now()
	id, err := insertUser(ctx, r.db, u)
	if err != nil {
		return domain.User{}, err
	}
	u.ID = id
	return u, nil
}

func (r *Repo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, getUserByIDSQL, id))
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, getUserByEmailSQL, email))
}

func (r *Repo) RegisterOwner(ctx context.Context, u domain.User, e domain.Establishment) (domain.User, domain.Establishment, error) {
	u.CreatedAt = r.now()
	r.stamp(&e)
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		uid, err := insertUser(ctx, tx, u)
		if err != nil {
			return err
		}
		u.ID, e.UserID = uid, uid
		eid, err := insertEstablishment(ctx, tx, e)
		if err != nil {
			return err
		}
		e.ID = eid
		return nil
	})
	if err != nil {
		return domain.User{}, domain.Establishment{}, err
	}
	return u, e, nil
}

func (r *Repo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, listUsersSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateUser(ctx context.Context, id int64, p domain.UserPatch) (domain.User, error) {
	var out domain.User
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		u, err := scanUser(tx.QueryRowContext(ctx, lockUserSQL, id))
		if err != nil {
			return err
		}
		p.Apply(&u)
		if _, err := tx.ExecContext(ctx, updateUserSQL, u.Username, u.Email, u.PasswordHash, string(u.Role), id); err != nil {
			return translate(err)
		}
		out = u
		return nil
	})
	return out, err
}

func (r *Repo) DeleteUser(ctx context.Context, id int64) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for _, q := range []string{deleteReviewsByOwnerSQL, deleteImagesByOwnerSQL, deleteEstablishmentsByOwnerSQL} {
			if _, err := tx.ExecContext(ctx, q, id); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx, deleteUserSQL, id)
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
