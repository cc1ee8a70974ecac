package server

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"flea_market/internal/domain"
	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/ragfair"
	"flea_market/internal/infrastructure/offerstore"
	"flea_market/pkg/contextx"
	"flea_market/pkg/errcodes"
	"flea_market/pkg/httpx/reply"
	"flea_market/pkg/httpx/req"
	"flea_market/pkg/lox"
	"flea_market/pkg/rest"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

var offerIDPattern = regexp.MustCompile(`^[0-9A-Za-z_-]{1,64}$`) //nolint:gochecknoglobals

type offerStore interface {
	List(f offerstore.Filter) []entity.Offer
	Get(id string) (entity.Offer, error)
	Add(ctx context.Context, offer entity.Offer)
}

type offerFactory interface {
	CreateOffer(
		sellerID string,
		createdAt int64,
		items []entity.Item,
		requirements []entity.OfferRequirement,
		minLoyaltyLevel int,
		sellAsSingleUnit bool,
	) (entity.Offer, error)
}

type profileSource interface {
	PlayerProfile(id string) (entity.PlayerProfile, bool)
}

type offerGenerator interface {
	GenerateOffers(ctx context.Context, bundles [][]entity.Item, isRefreshOfExpired bool) (ragfair.Result, error)
}

type OfferServer struct {
	store      offerStore
	factory    offerFactory
	profiles   profileSource
	generator  offerGenerator
	candidates func() [][]entity.Item
	now        func() time.Time
}

func NewOfferServer(
	store offerStore,
	factory offerFactory,
	profiles profileSource,
	generator offerGenerator,
	candidates func() [][]entity.Item,
) OfferServer {
	return OfferServer{
		store:      store,
		factory:    factory,
		profiles:   profiles,
		generator:  generator,
		candidates: candidates,
		now:        time.Now,
	}
}

func (s OfferServer) WithClock(now func() time.Time) OfferServer {
	s.now = now
	return s
}

func (s OfferServer) getV1Offers(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	query := r.URL.Query()

	limit, err := queryInt(query.Get("limit"), defaultLimit)
	if err != nil || limit < 1 || limit > maxLimit {
		return domain.NewError(errcodes.InvalidPaging, "limit must be between 1 and "+strconv.Itoa(maxLimit))
	}

	offset, err := queryInt(query.Get("offset"), 0)
	if err != nil || offset < 0 {
		return domain.NewError(errcodes.InvalidPaging, "offset must not be negative")
	}

	filter := offerstore.Filter{
		SellerID: query.Get("seller"),
		Tpl:      query.Get("tpl"),
	}

	total := len(s.store.List(filter))

	filter.Limit = limit
	filter.Offset = offset

	reply.JSON(ctx, w, http.StatusOK, rest.OfferList{
		Offers: lox.Map(s.store.List(filter), newRESTOffer),
		Total:  total,
	})

	return nil
}

func (s OfferServer) getV1Offer(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id := chi.URLParam(r, "id")
	if !offerIDPattern.MatchString(id) {
		return domain.NewError(errcodes.InvalidOfferID, "invalid offer id")
	}

	offer, err := s.store.Get(id)
	if err != nil {
		return fmt.Errorf("store.Get: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTOffer(offer))

	return nil
}

func (s OfferServer) postV1Offers(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	profileID, err := contextx.ProfileIDFromContext(ctx)
	if err != nil {
		return domain.WrapError(err, errcodes.ProfileIDRequired, "X-Profile-Id header is required")
	}

	if _, ok := s.profiles.PlayerProfile(profileID.String()); !ok {
		return domain.NewError(errcodes.ProfileNotFound, "profile "+profileID.String()+" not found")
	}

	var request rest.CreateOfferRequest

	if err = req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	items, err := lox.MapErr(request.Items, newDomainItem)
	if err != nil {
		return failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("newDomainItem: %w", err),
			failure.WithCode(errcodes.InvalidBundle),
		)
	}

	offer, err := s.factory.CreateOffer(
		profileID.String(),
		s.now().Unix(),
		items,
		lox.Map(request.Requirements, newDomainRequirement),
		0,
		request.SellInOnePiece,
	)
	if err != nil {
		return fmt.Errorf("factory.CreateOffer: %w", err)
	}

	s.store.Add(ctx, offer)

	reply.JSON(ctx, w, http.StatusCreated, newRESTOffer(offer))

	return nil
}

func (s OfferServer) postV1OffersGenerate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.GenerateRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	bundles := s.candidates()
	if request.Count > 0 && request.Count < len(bundles) {
		bundles = lo.Samples(bundles, request.Count)
	}

	res, err := s.generator.GenerateOffers(ctx, bundles, false)
	if err != nil {
		return fmt.Errorf("generator.GenerateOffers: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.GenerateResult{
		Bundles: res.Bundles,
		Skipped: res.Skipped,
		Created: res.Created,
		Failed:  res.Failed,
	})

	return nil
}

func queryInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}

	return strconv.Atoi(raw)
}
