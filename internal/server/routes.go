package server

import (
	"net/http"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"

	"flea_market/internal/domain"
	"flea_market/pkg/errcodes"
	"flea_market/pkg/httpx/reply"
	"flea_market/pkg/logx"
	"flea_market/pkg/middlewarex"
)

// NewRouter builds the API router with the logging middleware chain.
func NewRouter(s Server, logFieldMaxLen int) chi.Router {
	masker := logx.NewSensitiveDataMasker()

	r := chi.NewRouter()

	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.ProfileID,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
	)

	s.RegisterRoutes(r)

	return r
}

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Route("/offers", func(r chi.Router) {
			r.Get("/", handler(s.getV1Offers))
			r.Post("/", handler(s.postV1Offers))
			r.Post("/generate", handler(s.postV1OffersGenerate))
			r.Get("/{id}", handler(s.getV1Offer))
		})

		r.Post("/traders/{id}/sync", handler(s.postV1TraderSync))
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}

		if code, ok := domain.GetCode(err); ok {
			reply.ErrorStatus(r.Context(), w, statusOf(code), code, domain.MessageOf(err))
			return
		}

		reply.Error(r.Context(), w, err)
	}
}

func statusOf(code failure.ErrorCode) int {
	switch code { //nolint:exhaustive
	case errcodes.OfferNotFound,
		errcodes.TraderNotFound,
		errcodes.TemplateNotFound,
		errcodes.ProfileNotFound,
		errcodes.NotFound:
		return http.StatusNotFound
	case errcodes.InvalidOfferID,
		errcodes.InvalidTraderID,
		errcodes.InvalidRequirements,
		errcodes.InvalidBundle,
		errcodes.InvalidPaging,
		errcodes.ProfileIDRequired,
		errcodes.ValidationError:
		return http.StatusBadRequest
	case errcodes.TraderAssortEmpty:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
