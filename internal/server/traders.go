package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"flea_market/internal/domain"
	"flea_market/pkg/errcodes"
	"flea_market/pkg/httpx/reply"
	"flea_market/pkg/rest"
)

type traderSource interface {
	IsTrader(id string) bool
}

type traderSyncer interface {
	SyncTraderOffers(ctx context.Context, traderID string) (int, error)
}

type TraderServer struct {
	traders traderSource
	syncer  traderSyncer
}

func NewTraderServer(traders traderSource, syncer traderSyncer) TraderServer {
	return TraderServer{
		traders: traders,
		syncer:  syncer,
	}
}

func (s TraderServer) postV1TraderSync(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id := chi.URLParam(r, "id")
	if !offerIDPattern.MatchString(id) {
		return domain.NewError(errcodes.InvalidTraderID, "invalid trader id")
	}

	if !s.traders.IsTrader(id) {
		return domain.NewError(errcodes.TraderNotFound, "trader "+id+" not found")
	}

	created, err := s.syncer.SyncTraderOffers(ctx, id)
	if err != nil {
		return fmt.Errorf("syncer.SyncTraderOffers: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.TraderSyncResult{
		TraderID: id,
		Created:  created,
	})

	return nil
}
