package application

import (
	"time"

	"flea_market/internal/config"
	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/barter"
	"flea_market/internal/domain/service/condition"
	"flea_market/internal/domain/service/items"
	"flea_market/internal/domain/service/offer"
	"flea_market/internal/domain/service/pricing"
	"flea_market/internal/domain/service/ragfair"
	"flea_market/internal/domain/service/seller"
	"flea_market/internal/infrastructure/gamedata"
	"flea_market/internal/infrastructure/offerstore"
	"flea_market/internal/server"
	"flea_market/pkg/randx"
)

// Market - собранные сервисы барахолки поверх игровых данных.
type Market struct {
	Data      *gamedata.Database
	Tuning    config.Tuning
	Oracle    *pricing.Oracle
	Helper    *items.Helper
	Factory   *offer.Factory
	Store     *offerstore.Memory
	Generator *ragfair.Generator
}

func NewMarket(data *gamedata.Database, tuning config.Tuning, rnd randx.Source) *Market {
	oracle := pricing.NewOracle(data)
	helper := items.NewHelper(data, oracle, rnd, tuning)
	resolver := seller.NewResolver(data, data, rnd, tuning.RatingRange).WithNames(data.Names())
	factory := offer.NewFactory(resolver, data, helper, oracle, rnd, tuning)
	store := offerstore.NewMemory()

	generator := ragfair.NewGenerator(
		helper,
		barter.NewBuilder(oracle, helper, rnd, tuning),
		condition.NewRandomizer(helper, resolver, rnd, tuning.ConditionRangesByBaseClass),
		factory,
		store,
		data,
		data,
		rnd,
		tuning,
	)

	return &Market{
		Data:      data,
		Tuning:    tuning,
		Oracle:    oracle,
		Helper:    helper,
		Factory:   factory,
		Store:     store,
		Generator: generator,
	}
}

// WithClock pins the time used for offer start and end times.
func (m *Market) WithClock(now func() time.Time) *Market {
	m.Generator.WithClock(now)
	return m
}

func (m *Market) Candidates() [][]entity.Item {
	return ragfair.CandidateBundles(m.Data, m.Helper)
}

func (m *Market) Server() server.Server {
	return server.NewServer(
		server.NewOfferServer(m.Store, m.Factory, m.Data, m.Generator, m.Candidates),
		server.NewTraderServer(m.Data, m.Generator),
	)
}
