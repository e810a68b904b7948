package providers

import (
	"github.com/samber/do/v2"

	"github.com/storeapp/store-server/internal/auth"
	"github.com/storeapp/store-server/internal/config"
	"github.com/storeapp/store-server/internal/logger"
	"github.com/storeapp/store-server/internal/ratelimit"
	"github.com/storeapp/store-server/internal/service"
)

// ProvideCatalog provides the catalog service bundle.
func ProvideCatalog(i do.Injector) (*service.Catalog, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalog(storeHandle.Catalog, auth.RandomTokenSource{}, log.Logger), nil
}

// ProvideLoginLimiter provides the per-client login rate limiter.
func ProvideLoginLimiter(i do.Injector) (*ratelimit.KeyedRateLimiter, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return ratelimit.New(cfg.Auth.LoginRate, cfg.Auth.LoginBurst), nil
}
