package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"flea_market/internal/application"
	"flea_market/internal/config"
	"flea_market/internal/domain/value"
	"flea_market/internal/infrastructure/gamedata"
	"flea_market/internal/server"
	"flea_market/pkg/randx"
	"flea_market/pkg/rest"
	"flea_market/pkg/tests"
)

const (
	traderPrapor = "54cb50c76803fa8b248b4571"
	playerID     = "5f0c6a6e1c2b3a0001a1b2c3"
	tplBolts     = "57347c5b245977448d35f6e1"
)

func newClient(t *testing.T) tests.APIClient {
	t.Helper()

	data, err := gamedata.Load(filepath.Join("..", "..", "data"))
	require.NoError(t, err)

	tuning := config.DefaultTuning()
	tuning.OfferCountRange = value.IntRange{Min: 1, Max: 1}
	tuning.BarterChancePercent = 0
	tuning.PackChancePercent = 0
	tuning.ArmorPlateRemovalChancePercent = 0
	tuning.Workers = 2

	market := application.NewMarket(data, tuning, randx.New(3))

	srv := httptest.NewServer(server.NewRouter(market.Server(), 2048))
	t.Cleanup(srv.Close)

	return tests.NewAPIClient(srv.URL, srv.Client())
}

func TestTraderSyncAndOffers(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	client := newClient(t)

	var synced rest.TraderSyncResult

	resp, err := client.Post(ctx, "/v1/traders/"+traderPrapor+"/sync", nil, nil, &synced, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(traderPrapor, synced.TraderID)
	rq.Equal(3, synced.Created)

	var list rest.OfferList

	resp, err = client.Get(ctx, "/v1/offers?seller="+traderPrapor, nil, &list, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(3, list.Total)
	rq.Len(list.Offers, 3)

	for i := 1; i < len(list.Offers); i++ {
		rq.Less(list.Offers[i-1].IntID, list.Offers[i].IntID)
	}

	resp, err = client.Get(ctx, "/v1/offers?seller="+traderPrapor+"&limit=1&offset=1", nil, &list, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(3, list.Total)
	rq.Len(list.Offers, 1)

	first := list.Offers[0]

	var got rest.Offer

	resp, err = client.Get(ctx, "/v1/offers/"+first.ID, nil, &got, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(first.ID, got.ID)
	rq.Equal(traderPrapor, got.User.ID)
	rq.Equal(int(value.MemberCategoryTrader), got.User.MemberType)
}

func TestErrors(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	client := newClient(t)

	profile := tests.ProfileHeader(playerID)

	testCases := []struct {
		name    string
		method  string
		path    string
		headers http.Header
		body    string
		status  int
		code    rest.ErrorCode
	}{
		{
			name:   "unknown offer",
			method: http.MethodGet,
			path:   "/v1/offers/nope",
			status: http.StatusNotFound,
			code:   "OfferNotFound",
		},
		{
			name:   "invalid offer id",
			method: http.MethodGet,
			path:   "/v1/offers/bad!id",
			status: http.StatusBadRequest,
			code:   "InvalidOfferID",
		},
		{
			name:   "invalid limit",
			method: http.MethodGet,
			path:   "/v1/offers?limit=0",
			status: http.StatusBadRequest,
			code:   "InvalidPaging",
		},
		{
			name:   "invalid offset",
			method: http.MethodGet,
			path:   "/v1/offers?offset=x",
			status: http.StatusBadRequest,
			code:   "InvalidPaging",
		},
		{
			name:   "unknown trader",
			method: http.MethodPost,
			path:   "/v1/traders/5a7c2eca46aef81a7ca2145e/sync",
			body:   `{}`,
			status: http.StatusNotFound,
			code:   "TraderNotFound",
		},
		{
			name:   "player offer without profile",
			method: http.MethodPost,
			path:   "/v1/offers",
			body:   `{}`,
			status: http.StatusBadRequest,
			code:   "ProfileIDRequired",
		},
		{
			name:    "player offer with unknown profile",
			method:  http.MethodPost,
			path:    "/v1/offers",
			headers: tests.ProfileHeader("000000000000000000000000"),
			body:    `{}`,
			status:  http.StatusNotFound,
			code:    "ProfileNotFound",
		},
		{
			name:    "player offer without items",
			method:  http.MethodPost,
			path:    "/v1/offers",
			headers: profile,
			body:    `{"items":[],"requirements":[{"_tpl":"5449016a4bdc2d6f028b456f","count":1}]}`,
			status:  http.StatusBadRequest,
			code:    "ValidationError",
		},
		{
			name:    "player offer with unknown template",
			method:  http.MethodPost,
			path:    "/v1/offers",
			headers: profile,
			body:    `{"items":[{"_id":"p1","_tpl":"unknown"}],"requirements":[{"_tpl":"5449016a4bdc2d6f028b456f","count":1}]}`,
			status:  http.StatusNotFound,
			code:    "TemplateNotFound",
		},
		{
			name:    "player offer priced at a fraction of a rouble",
			method:  http.MethodPost,
			path:    "/v1/offers",
			headers: profile,
			body:    `{"items":[{"_id":"p1","_tpl":"` + tplBolts + `"}],"requirements":[{"_tpl":"5449016a4bdc2d6f028b456f","count":0.004}]}`,
			status:  http.StatusBadRequest,
			code:    "InvalidRequirements",
		},
		{
			name:    "pack offer of a single item",
			method:  http.MethodPost,
			path:    "/v1/offers",
			headers: profile,
			body:    `{"items":[{"_id":"p1","_tpl":"` + tplBolts + `"}],"requirements":[{"_tpl":"5449016a4bdc2d6f028b456f","count":100}],"sellInOnePiece":true}`,
			status:  http.StatusBadRequest,
			code:    "InvalidBundle",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			var (
				errResp rest.Error
				resp    *http.Response
				err     error
			)

			if tc.method == http.MethodGet {
				resp, err = client.Get(ctx, tc.path, tc.headers, nil, &errResp)
			} else {
				resp, err = client.PostJSON(ctx, tc.path, tc.headers, tc.body, nil, &errResp)
			}

			rq.NoError(err)
			rq.Equal(tc.status, resp.StatusCode)
			rq.Equal(tc.code, errResp.Code)
			rq.NotEmpty(errResp.SupportID)
		})
	}
}

func TestPlayerOffer(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	client := newClient(t)

	var created rest.Offer

	resp, err := client.PostJSON(
		ctx,
		"/v1/offers",
		tests.ProfileHeader(playerID),
		`{"items":[{"_id":"p1","_tpl":"`+tplBolts+`","upd":{"StackObjectsCount":3}}],`+
			`"requirements":[{"_tpl":"5449016a4bdc2d6f028b456f","count":15000}],"sellInOnePiece":true}`,
		&created,
		nil,
	)
	rq.NoError(err)
	rq.Equal(http.StatusCreated, resp.StatusCode)

	rq.Equal(playerID, created.User.ID)
	rq.Equal("Tagilla_Fan", created.User.Nickname)
	rq.Equal("p1", created.Root)
	rq.Equal(15000, created.SummaryCost)
	rq.Equal(5000, created.RequirementsCost)
	rq.True(created.SellInOnePiece)
	rq.Equal(created.StartTime+12*3600, created.EndTime)
	rq.JSONEq(`{"StackObjectsCount":3}`, string(created.Items[0].Upd))

	var list rest.OfferList

	_, err = client.Get(ctx, "/v1/offers?seller="+playerID+"&tpl="+tplBolts, nil, &list, nil)
	rq.NoError(err)
	rq.Equal(1, list.Total)
	rq.Equal(created.ID, list.Offers[0].ID)
}

func TestCreatePlayerOfferDogtagBarter(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	client := newClient(t)

	var created rest.Offer

	resp, err := client.PostJSON(
		ctx,
		"/v1/offers",
		tests.ProfileHeader(playerID),
		`{"items":[{"_id":"p1","_tpl":"`+tplBolts+`"}],`+
			`"requirements":[{"_tpl":"59f32bb586f774757e1e8442","count":2,"level":20,"side":"Bear"}]}`,
		&created,
		nil,
	)
	rq.NoError(err)
	rq.Equal(http.StatusCreated, resp.StatusCode)

	rq.Len(created.Requirements, 1)
	rq.NotNil(created.Requirements[0].Level)
	rq.Equal(20, *created.Requirements[0].Level)
	rq.Equal("Bear", created.Requirements[0].Side)
	// жетон без цены, лот всё равно не бесплатный
	rq.Equal(1, created.SummaryCost)

	var errResp rest.Error

	resp, err = client.PostJSON(
		ctx,
		"/v1/offers",
		tests.ProfileHeader(playerID),
		`{"items":[{"_id":"p2","_tpl":"`+tplBolts+`"}],`+
			`"requirements":[{"_tpl":"59f32bb586f774757e1e8442","count":1,"side":"Scav"}]}`,
		nil,
		&errResp,
	)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(rest.ErrorCode("ValidationError"), errResp.Code)
}

func TestGenerate(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	client := newClient(t)

	var res rest.GenerateResult

	resp, err := client.Post(ctx, "/v1/offers/generate", nil, rest.GenerateRequest{Count: 2}, &res, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(2, res.Bundles)
	rq.Equal(res.Bundles, res.Skipped+res.Created+res.Failed)

	var errResp rest.Error

	resp, err = client.PostJSON(ctx, "/v1/offers/generate", nil, `{"count":-1}`, nil, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(rest.ErrorCode("ValidationError"), errResp.Code)
}
