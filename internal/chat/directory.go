package chat

import (
	"context"

	"github.com/markod/fitlink/internal/domain"
	"github.com/markod/fitlink/internal/live"
	"github.com/markod/fitlink/internal/repository"
	"go.uber.org/zap"
)

// Directory is the live view of one user's accepted partners and inbound
// pending requests. The two feeds are independent subscriptions and do not
// update together; consumers must not assume cross-feed ordering.
type Directory struct {
	partners *live.Subscription[[]domain.Partner]
	requests *live.Subscription[[]domain.PartnerRequest]
}

func OpenDirectory(ctx context.Context, bus *live.Bus, repo repository.PartnerRepository, id Identity, logger *zap.Logger) *Directory {
	partners := live.Subscribe(ctx, bus, live.PartnershipsTopic(id.Email),
		func(ctx context.Context) ([]domain.Partner, error) {
			pms, err := repo.ListPartnerships(ctx, id.Email)
			if err != nil {
				return nil, err
			}
			partners := make([]domain.Partner, 0, len(pms))
			for i := range pms {
				partners = append(partners, pms[i].PartnerFor(id.Email))
			}
			return partners, nil
		}, logger)

	requests := live.Subscribe(ctx, bus, live.RequestsTopic(id.Email),
		func(ctx context.Context) ([]domain.PartnerRequest, error) {
			return repo.ListIncomingRequests(ctx, id.Email)
		}, logger)

	return &Directory{partners: partners, requests: requests}
}

func (d *Directory) Partners() <-chan []domain.Partner {
	return d.partners.Updates()
}

func (d *Directory) Requests() <-chan []domain.PartnerRequest {
	return d.requests.Updates()
}

func (d *Directory) Close() {
	d.partners.Stop()
	d.requests.Stop()
}
