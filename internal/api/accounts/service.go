package accounts

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	"github.com/skybi/identity-server/internal/account"
	"github.com/skybi/identity-server/internal/api/routes"
	"github.com/skybi/identity-server/internal/api/schema"
	"github.com/skybi/identity-server/internal/config"
	"github.com/skybi/identity-server/internal/hateoas"
	"github.com/skybi/identity-server/internal/storage"
	"net/http"
)

// Names of the routes links are generated for
const (
	RouteList   = "accounts.list"
	RouteSearch = "accounts.search"
	RouteOne    = "accounts.one"
)

// Service represents the account API service
type Service struct {
	server *http.Server

	Config  *config.Config
	Storage storage.Driver

	// HashCost overrides the bcrypt cost used to hash passwords if positive
	HashCost int

	writer    *schema.Writer
	routes    *routes.Table
	assembler *hateoas.Assembler[*account.Account]
	queries   *account.Queries
	commands  *account.Commands
}

// Startup starts up the account API
func (service *Service) Startup() error {
	server := &http.Server{
		Addr:    service.Config.ListenAddress,
		Handler: service.Handler(),
	}
	service.server = server
	return server.ListenAndServe()
}

// Handler builds the HTTP handler serving the account API
func (service *Service) Handler() http.Handler {
	// Create the HTTP schema writer
	service.writer = &schema.Writer{
		InternalErrorHook: func(err error) {
			log.Error().Err(err).Msg("the account API experienced an unexpected error")
		},
	}

	// Create the account executors and the response assembler
	service.queries = account.NewQueries(service.Storage.Accounts())
	service.commands = account.NewCommands(service.Storage.Accounts())
	if service.HashCost > 0 {
		service.commands = service.commands.WithHashCost(service.HashCost)
	}
	service.routes = routes.New(service.Config.BaseAddress)
	service.assembler = hateoas.NewAssembler[*account.Account](
		hateoas.NewLinkBuilder(service.routes, RouteOne),
		service.Config.PagingOptions(),
	)

	// Create the HTTP router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(MiddlewareLogRequest)
	router.Use(middleware.RedirectSlashes)
	router.Use(middleware.GetHead)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{service.Config.AllowedOrigin},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Location"},
	}))
	router.NotFound(func(writer http.ResponseWriter, _ *http.Request) {
		service.writer.WriteErrors(writer, http.StatusNotFound, schema.ErrNotFound)
	})
	router.MethodNotAllowed(func(writer http.ResponseWriter, _ *http.Request) {
		service.writer.WriteErrors(writer, http.StatusMethodNotAllowed, schema.ErrMethodNotAllowed)
	})

	// Register the account controller endpoints
	list := service.routes.Register(RouteList, "/v1/accounts")
	search := service.routes.Register(RouteSearch, "/v1/accounts/search")
	one := service.routes.Register(RouteOne, "/v1/accounts/{id}")

	router.Get(list, service.EndpointGetAccounts)
	router.Post(list, service.EndpointCreateAccount)
	router.Get(search, service.EndpointSearchAccounts)
	router.Get(one, service.EndpointGetAccount)
	router.With(service.MiddlewareResolveActor).Patch(one, service.EndpointPatchAccount)
	router.With(service.MiddlewareResolveActor).Delete(one, service.EndpointDeleteAccount)

	return router
}

// Shutdown shuts down the account API
func (service *Service) Shutdown() {
	if service.server != nil {
		service.server.Close()
		service.server = nil
	}
}
