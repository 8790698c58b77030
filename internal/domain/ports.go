package domain

import "context"

type EstablishmentRepository interface {
	// Write paths; each call is atomic.
	CreateEstablishment(ctx context.Context, e Establishment) (Establishment, error)
	UpdateEstablishment(ctx context.Context, id int64, p EstablishmentPatch) (Establishment, error)
	DeleteEstablishment(ctx context.Context, id int64) error // cascades reviews and images
	CreateReview(ctx context.Context, r Review) (Review, error)
	CreateImage(ctx context.Context, img Image) (Image, error)

	// Read paths
	GetEstablishment(ctx context.Context, id int64) (Establishment, error)
	ListEstablishments(ctx context.Context, f EstablishmentFilter) ([]EstablishmentView, error)
	ListReviews(ctx context.Context, establishmentID int64) ([]Review, error)
	ListImages(ctx context.Context, establishmentID int64) ([]Image, error)
	DistinctNeighborhoods(ctx context.Context) ([]string, error)
	DistinctTypes(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (Stats, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, u User) (User, error) // ErrConflict on duplicate email
	GetUserByID(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, id int64, p UserPatch) (User, error) // ErrConflict on duplicate email
	// DeleteUser also removes the user's establishments with their reviews and images.
	DeleteUser(ctx context.Context, id int64) error
	// RegisterOwner stores the user and its first establishment in one transaction.
	RegisterOwner(ctx context.Context, u User, e Establishment) (User, Establishment, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, keys ...string) error
}

// NotificationSender delivers a message to its recipient.
type NotificationSender interface {
	Send(ctx context.Context, n Notification) error
}

type NotificationLog interface {
	Append(ctx context.Context, rec NotificationRecord) error
	Recent(ctx context.Context, limit int) ([]NotificationRecord, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Issue(p Principal) (string, error)
	Parse(token string) (Principal, error)
}
