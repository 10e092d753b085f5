package api

import (
	"errors"
	"github.com/skybi/identity-server/internal/api/accounts"
	"github.com/skybi/identity-server/internal/config"
	"github.com/skybi/identity-server/internal/storage"
	"net/http"
)

// Service represents the identity API service
type Service struct {
	Config   *config.Config
	Storage  storage.Driver
	accounts *accounts.Service
}

// Startup starts up the account API in the background; unexpected server errors are sent to errs
func (service *Service) Startup(errs chan<- error) {
	accountService := &accounts.Service{
		Config:  service.Config,
		Storage: service.Storage,
	}
	service.accounts = accountService
	go func() {
		if err := accountService.Startup(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()
}

// Shutdown shuts down the account API
func (service *Service) Shutdown() {
	if service.accounts != nil {
		service.accounts.Shutdown()
		service.accounts = nil
	}
}
