package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barzinhos/internal/app"
	"barzinhos/internal/domain"
	"barzinhos/internal/storage/memory"
)

type recordingSender struct {
	sent []domain.Notification
	err  error
}

func (s *recordingSender) Send(ctx context.Context, n domain.Notification) error {
	s.sent = append(s.sent, n)
	return s.err
}

func newCommands(t *testing.T) (fixture, *app.EstablishmentService, *fakeCache, *recordingSender) {
	t.Helper()
	f := newFixture(t)
	cache := &fakeCache{}
	sender := &recordingSender{}
	notify := app.NewNotificationService(sender, memory.NewNotificationLog(10))
	return f, app.NewEstablishmentService(f.store, cache, notify), cache, sender
}

var admin = domain.Principal{UserID: 999, Role: domain.RoleAdmin}

func ptr[T any](v T) *T { return &v }

func TestCreate_OwnerIsCallerAndPending(t *testing.T) {
	f, svc, cache, _ := newCommands(t)
	caller := domain.Principal{UserID: f.owner.ID, Role: domain.RoleEstablishment}

	e, err := svc.Create(context.Background(), caller, domain.Establishment{
		UserID: 12345, Name: "Bar Novo", Address: "Rua 9", Neighborhood: "Lapa", Type: "Bar", IsApproved: true,
	})
	require.NoError(t, err)
	assert.Equal(t, f.owner.ID, e.UserID)
	assert.False(t, e.IsApproved)
	assert.ElementsMatch(t, []string{"taxonomy:neighborhoods", "taxonomy:types", "establishments:stats"}, cache.dels)
}

func TestCreate_AdminMayApprove(t *testing.T) {
	f, svc, _, _ := newCommands(t)
	e, err := svc.Create(context.Background(), admin, domain.Establishment{
		UserID: f.owner.ID, Name: "Bar Novo", Address: "Rua 9", Neighborhood: "Lapa", Type: "Bar", IsApproved: true,
	})
	require.NoError(t, err)
	assert.Equal(t, f.owner.ID, e.UserID)
	assert.True(t, e.IsApproved)
}

func TestCreate_RequiredFields(t *testing.T) {
	f, svc, _, _ := newCommands(t)
	_, err := svc.Create(context.Background(), domain.Principal{UserID: f.owner.ID}, domain.Establishment{Name: "Bar"})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "address", ve.Field)
}

func TestUpdate_Authorization(t *testing.T) {
	f, svc, _, _ := newCommands(t)
	ctx := context.Background()
	owner := domain.Principal{UserID: f.owner.ID, Role: domain.RoleEstablishment}
	stranger := domain.Principal{UserID: f.owner.ID + 100, Role: domain.RoleUser}

	_, err := svc.Update(ctx, stranger, f.bar.ID, domain.EstablishmentPatch{Name: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Update(ctx, owner, f.bar.ID, domain.EstablishmentPatch{IsApproved: ptr(false)})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	e, err := svc.Update(ctx, owner, f.bar.ID, domain.EstablishmentPatch{IsOpen: ptr(false)})
	require.NoError(t, err)
	assert.False(t, e.IsOpen)
	assert.Equal(t, "Boteco Central", e.Name)

	_, err = svc.Update(ctx, owner, f.bar.ID, domain.EstablishmentPatch{Name: ptr("  ")})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Update(ctx, admin, 404, domain.EstablishmentPatch{Name: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetApproval_NotifiesOwner(t *testing.T) {
	f, svc, _, sender := newCommands(t)
	ctx := context.Background()

	_, err := svc.SetApproval(ctx, domain.Principal{UserID: f.owner.ID, Role: domain.RoleEstablishment}, f.bar.ID, true)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	e, err := svc.SetApproval(ctx, admin, f.bar.ID, false)
	require.NoError(t, err)
	assert.False(t, e.IsApproved)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, domain.NotifyRejection, sender.sent[0].Kind)
	assert.Equal(t, "5511999999999", sender.sent[0].Phone)
}

func TestSetApproval_SendFailureDoesNotFail(t *testing.T) {
	f := newFixture(t)
	sender := &recordingSender{err: errors.New("gateway down")}
	svc := app.NewEstablishmentService(f.store, nil, app.NewNotificationService(sender, nil))

	e, err := svc.SetApproval(context.Background(), admin, f.bar.ID, true)
	require.NoError(t, err)
	assert.True(t, e.IsApproved)
}

func TestDelete_CascadesReviews(t *testing.T) {
	f, svc, _, _ := newCommands(t)
	ctx := context.Background()
	_, err := svc.AddReview(ctx, domain.Review{EstablishmentID: f.bar.ID, UserName: "Ana", Rating: 4})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, domain.Principal{UserID: 4242}, f.bar.ID), domain.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, domain.Principal{UserID: f.owner.ID}, f.bar.ID))

	rs, err := f.store.ListReviews(ctx, f.bar.ID)
	require.NoError(t, err)
	assert.Empty(t, rs)
}

func TestAddReview_RatingBounds(t *testing.T) {
	f, svc, _, _ := newCommands(t)
	ctx := context.Background()
	for _, tc := range []struct {
		rating int
		ok     bool
	}{{0, false}, {1, true}, {5, true}, {6, false}} {
		_, err := svc.AddReview(ctx, domain.Review{EstablishmentID: f.bar.ID, UserName: "Ana", Rating: tc.rating})
		if tc.ok {
			assert.NoError(t, err, "rating %d", tc.rating)
		} else {
			assert.True(t, domain.IsValidation(err), "rating %d", tc.rating)
		}
	}

	_, err := svc.AddReview(ctx, domain.Review{EstablishmentID: 404, UserName: "Ana", Rating: 3})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddImage_OwnerOnly(t *testing.T) {
	f, svc, _, _ := newCommands(t)
	ctx := context.Background()

	_, err := svc.AddImage(ctx, domain.Principal{UserID: f.owner.ID}, domain.Image{EstablishmentID: f.bar.ID})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.AddImage(ctx, domain.Principal{UserID: 4242}, domain.Image{EstablishmentID: f.bar.ID, URL: "https://img/x.jpg"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	img, err := svc.AddImage(ctx, domain.Principal{UserID: f.owner.ID}, domain.Image{EstablishmentID: f.bar.ID, URL: "https://img/x.jpg"})
	require.NoError(t, err)
	assert.NotZero(t, img.ID)
}

func TestNotificationService_RecordsFailures(t *testing.T) {
	sender := &recordingSender{err: errors.New("gateway down")}
	nlog := memory.NewNotificationLog(10)
	svc := app.NewNotificationService(sender, nlog)
	ctx := context.Background()

	rec, err := svc.Dispatch(ctx, domain.Notification{Kind: domain.NotifyCustom, Phone: "1", Message: "oi"})
	require.Error(t, err)
	assert.Equal(t, domain.StatusFailed, rec.Status)
	assert.Equal(t, "gateway down", rec.Error)
	assert.NotEmpty(t, rec.ID)
	assert.WithinDuration(t, time.Now(), rec.Timestamp, time.Minute)

	recs, err := svc.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, rec.ID, recs[0].ID)
}
