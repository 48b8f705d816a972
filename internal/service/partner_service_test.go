package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/markod/fitlink/internal/live"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPartnerService(store *fakeStore, pub *pubRecorder) *PartnerService {
	return NewPartnerService(store.partnerRepo(), store.userRepo(), pub, zap.NewNop())
}

func TestSendRequestValidation(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	pub := &pubRecorder{}
	svc := newPartnerService(store, pub)

	ana := store.addUser("a@x.com", "Ana")
	store.addUser("b@x.com", "Bea")

	_, err := svc.SendRequest(ctx, ana.ID, "a@x.com")
	require.ErrorIs(t, err, ErrCannotRequestSelf)

	_, err = svc.SendRequest(ctx, ana.ID, "ghost@x.com")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.SendRequest(ctx, uuid.New(), "b@x.com")
	require.ErrorIs(t, err, ErrUserNotFound)

	req, err := svc.SendRequest(ctx, ana.ID, "b@x.com")
	require.NoError(t, err)
	require.Equal(t, "a@x.com", req.FromEmail)
	require.Equal(t, "Ana", req.FromUsername)
	require.Equal(t, "pending", req.Status)
	require.True(t, pub.published(live.RequestsTopic("b@x.com")))

	_, err = svc.SendRequest(ctx, ana.ID, "b@x.com")
	require.ErrorIs(t, err, ErrRequestAlreadySent)
}

func TestSendRequestNormalizesEmail(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := newPartnerService(store, &pubRecorder{})

	ana := store.addUser("a@x.com", "Ana")
	store.addUser("b@x.com", "Bea")

	req, err := svc.SendRequest(ctx, ana.ID, "  B@X.com ")
	require.NoError(t, err)
	require.Equal(t, "b@x.com", req.ToEmail)
}

func TestSendRequestRejectsExistingPartners(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	pub := &pubRecorder{}
	svc := newPartnerService(store, pub)

	ana := store.addUser("a@x.com", "Ana")
	bea := store.addUser("b@x.com", "Bea")

	_, err := svc.SendRequest(ctx, ana.ID, "b@x.com")
	require.NoError(t, err)
	reqs, err := svc.ListIncomingRequests(ctx, bea.ID)
	require.NoError(t, err)
	require.Len(t, reqs, 1)

	_, err = svc.AcceptRequest(ctx, bea.ID, reqs[0].ID)
	require.NoError(t, err)

	_, err = svc.SendRequest(ctx, ana.ID, "b@x.com")
	require.ErrorIs(t, err, ErrAlreadyPartners)
}

func TestAcceptRequest(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	pub := &pubRecorder{}
	svc := newPartnerService(store, pub)

	ana := store.addUser("a@x.com", "Ana")
	bea := store.addUser("b@x.com", "Bea")

	req, err := svc.SendRequest(ctx, ana.ID, "b@x.com")
	require.NoError(t, err)

	_, err = svc.AcceptRequest(ctx, ana.ID, req.ID)
	require.ErrorIs(t, err, ErrNotRequestRecipient)

	pm, err := svc.AcceptRequest(ctx, bea.ID, req.ID)
	require.NoError(t, err)
	require.Equal(t, [2]string{"a@x.com", "b@x.com"}, pm.Participants)
	require.Equal(t, "Ana", pm.Usernames["a@x.com"])
	require.Equal(t, "Bea", pm.Usernames["b@x.com"])

	// The request is consumed; accepting it again reports it missing.
	_, err = svc.AcceptRequest(ctx, bea.ID, req.ID)
	require.ErrorIs(t, err, ErrRequestNotFound)

	// Both participants' partner views and the recipient's request view
	// were invalidated.
	require.True(t, pub.published(live.PartnershipsTopic("a@x.com")))
	require.True(t, pub.published(live.PartnershipsTopic("b@x.com")))
	require.True(t, pub.published(live.RequestsTopic("b@x.com")))

	// Both sides see each other with the recorded display names.
	anaPartners, err := svc.ListPartners(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, anaPartners, 1)
	require.Equal(t, "Bea", anaPartners[0].Username)

	beaPartners, err := svc.ListPartners(ctx, bea.ID)
	require.NoError(t, err)
	require.Len(t, beaPartners, 1)
	require.Equal(t, "Ana", beaPartners[0].Username)
	require.Equal(t, pm.ID, beaPartners[0].ID)
}

func TestRejectRequestIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	pub := &pubRecorder{}
	svc := newPartnerService(store, pub)

	ana := store.addUser("a@x.com", "Ana")
	bea := store.addUser("b@x.com", "Bea")

	req, err := svc.SendRequest(ctx, ana.ID, "b@x.com")
	require.NoError(t, err)

	require.ErrorIs(t, svc.RejectRequest(ctx, ana.ID, req.ID), ErrNotRequestRecipient)

	require.NoError(t, svc.RejectRequest(ctx, bea.ID, req.ID))
	// A double-click on reject is a no-op, not an error.
	require.NoError(t, svc.RejectRequest(ctx, bea.ID, req.ID))

	reqs, err := svc.ListIncomingRequests(ctx, bea.ID)
	require.NoError(t, err)
	require.Empty(t, reqs)
}

func TestDeletePartnership(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	pub := &pubRecorder{}
	svc := newPartnerService(store, pub)

	ana := store.addUser("a@x.com", "Ana")
	bea := store.addUser("b@x.com", "Bea")
	eve := store.addUser("e@x.com", "Eve")

	req, err := svc.SendRequest(ctx, ana.ID, "b@x.com")
	require.NoError(t, err)
	pm, err := svc.AcceptRequest(ctx, bea.ID, req.ID)
	require.NoError(t, err)

	require.ErrorIs(t, svc.DeletePartnership(ctx, eve.ID, pm.ID), ErrNotParticipant)

	require.NoError(t, svc.DeletePartnership(ctx, ana.ID, pm.ID))
	// Already gone: deleting again is a no-op.
	require.NoError(t, svc.DeletePartnership(ctx, ana.ID, pm.ID))

	partners, err := svc.ListPartners(ctx, bea.ID)
	require.NoError(t, err)
	require.Empty(t, partners)
}
