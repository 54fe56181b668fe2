package transport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-kit/kit/endpoint"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/ijalalfrz/business-travel-service/internal/app/config"
	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/ijalalfrz/business-travel-service/internal/app/endpoints"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/ratelimit"
	httptransport "github.com/ijalalfrz/business-travel-service/internal/pkg/transport/http"
)

// MakeHTTPRouter builds the HTTP router with all the service endpoints.
func MakeHTTPRouter(
	cfg *config.Config,
	endpts endpoints.Endpoints,
	limiter ratelimit.Limiter,
) *chi.Mux {
	// Initialize Router
	router := chi.NewRouter()

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	errorEncoder := kithttp.ServerErrorEncoder(httptransport.NewErrorEncoder(cfg.IsDevelopment()))
	listErrorEncoder := kithttp.ServerErrorEncoder(httptransport.NewListErrorEncoder(cfg.IsDevelopment()))

	trustedProxies := httptransport.ParseTrustedProxies(cfg.RateLimit.TrustedProxies)

	searchLimit := httptransport.RateLimit(limiter, "search", cfg.RateLimit.SearchPerMinute, trustedProxies)
	searchOffers := httptransport.MakeHandlerFunc(
		endpts.Offer.SearchOffers,
		httptransport.DecodeRequest[dto.SearchParams],
		httptransport.ResponseWithBody,
		errorEncoder,
	)

	router.Route("/api", func(router chi.Router) {
		router.Use(
			httptransport.RequestID(),
			httptransport.CORSMiddleware(cfg.HTTP.CORSAllowedOrigins),
			httptransport.Recoverer(slog.Default()),
			render.SetContentType(render.ContentTypeJSON),
		)

		router.With(httptransport.RateLimit(limiter, "chat", cfg.RateLimit.ChatPerMinute, trustedProxies)).
			Post("/ai-chat", httptransport.MakeHandlerFunc(
				endpts.Chat.Chat,
				httptransport.DecodeRequest[dto.ChatRequest],
				httptransport.ResponseWithBody,
				errorEncoder,
			))

		router.Route("/flights/duffel", func(router chi.Router) {
			router.With(searchLimit).Post("/flight-search", searchOffers)

			router.Get("/offers/{offerId}", httptransport.MakeHandlerFunc(
				endpts.Offer.GetOffer,
				decodeOfferRequest,
				httptransport.ResponseWithBody,
				errorEncoder,
			))

			router.Get("/places", httptransport.MakeHandlerFunc(
				endpts.Place.SearchPlaces,
				decodePlaceQuery,
				httptransport.ResponseWithBody,
				listErrorEncoder,
			))
		})

		router.With(searchLimit).Post("/travel/flights/search", searchOffers)

		router.Post("/stripe/webhooks", httptransport.MakeHandlerFunc(
			endpts.Billing.HandleWebhook,
			decodeWebhook,
			httptransport.ResponseWithBody,
			errorEncoder,
		))

		router.Post("/process-document", httptransport.MakeHandlerFunc(
			endpts.Document.ProcessDocument,
			makeDecodeUpload(cfg.OCR.MaxUploadBytes),
			httptransport.ResponseWithBody,
			errorEncoder,
		))

		router.Post("/policy/evaluate", httptransport.MakeHandlerFunc(
			endpts.Policy.Evaluate,
			httptransport.DecodeRequest[dto.PolicyEvaluateRequest],
			httptransport.ResponseWithBody,
			errorEncoder,
		))

		router.Route("/tools", func(router chi.Router) {
			for path, e := range map[string]endpoint.Endpoint{
				"/flight-search":       endpts.Tool.FlightSearch,
				"/code-generation":     endpts.Tool.CodeGeneration,
				"/document-processing": endpts.Tool.DocumentProcessing,
				"/expense-analysis":    endpts.Tool.ExpenseAnalysis,
			} {
				router.Post(path, httptransport.MakeHandlerFunc(
					e,
					httptransport.DecodeRequest[dto.ToolRequest],
					httptransport.ResponseWithBody,
					errorEncoder,
				))
			}
		})
	})

	return router
}
