package app

import (
	"context"
	"strings"

	"barzinhos/internal/domain"
)

// UserService is the account administration used by the admin-only /users routes.
type UserService struct {
	users  domain.UserRepository
	hasher domain.PasswordHasher
	cache  domain.Cache
}

func NewUserService(u domain.UserRepository, h domain.PasswordHasher, c domain.Cache) *UserService {
	return &UserService{users: u, hasher: h, cache: c}
}

// UserUpdate is a requested account change; nil fields are left untouched.
// Password is plain text and is hashed before storage.
type UserUpdate struct {
	Username *string
	Email    *string
	Password *string
	Role     *domain.Role
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.ListUsers(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (domain.User, error) {
	return s.users.GetUserByID(ctx, id)
}

// Create stores a new account with the given role; an empty role means user.
func (s *UserService) Create(ctx context.Context, username, email, password string, role domain.Role) (domain.User, error) {
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return domain.User{}, domain.Invalid("role", "must be one of user, establishment, admin")
	}
	u, err := newAccount(s.hasher, username, email, password, role)
	if err != nil {
		return domain.User{}, err
	}
	return s.users.CreateUser(ctx, u)
}

func (s *UserService) Update(ctx context.Context, id int64, in UserUpdate) (domain.User, error) {
	var p domain.UserPatch
	if in.Username != nil {
		name := strings.TrimSpace(*in.Username)
		if name == "" {
			return domain.User{}, domain.Invalid("username", "must not be empty")
		}
		p.Username = &name
	}
	if in.Email != nil {
		email := domain.NormalizeEmail(*in.Email)
		if err := domain.ValidateEmail(email); err != nil {
			return domain.User{}, err
		}
		p.Email = &email
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return domain.User{}, domain.Invalid("role", "must be one of user, establishment, admin")
		}
		p.Role = in.Role
	}
	if in.Password != nil {
		if err := domain.ValidatePassword(*in.Password); err != nil {
			return domain.User{}, err
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return domain.User{}, err
		}
		p.PasswordHash = &hash
	}
	if p.Empty() {
		return s.users.GetUserByID(ctx, id)
	}
	return s.users.UpdateUser(ctx, id, p)
}

// Delete removes the account together with its establishments.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return err
	}
	invalidateDerived(ctx, s.cache)
	return nil
}
