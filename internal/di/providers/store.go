package providers

import (
	"github.com/samber/do/v2"

	"github.com/storeapp/store-server/internal/config"
	"github.com/storeapp/store-server/internal/logger"
	"github.com/storeapp/store-server/internal/store"
	"github.com/storeapp/store-server/internal/store/sqlite"
)

// StoreHandle wraps the catalog store with shutdown capability.
type StoreHandle struct {
	store.Catalog
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the catalog store. The in-memory variant is used
// for demos and tests; everything else runs on SQLite.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Store.InMemory {
		log.Info("Using in-memory store")
		return &StoreHandle{Catalog: store.NewMemory(nil)}, nil
	}

	s, err := sqlite.Open(cfg.Store.Path, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Store opened", "path", cfg.Store.Path)
	return &StoreHandle{Catalog: s}, nil
}
