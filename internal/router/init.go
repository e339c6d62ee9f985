package router

import (
	"github.com/oksasatya/campuskart/internal/application"
	"github.com/oksasatya/campuskart/internal/container"
	repo "github.com/oksasatya/campuskart/internal/domain/repository"
	pginfra "github.com/oksasatya/campuskart/internal/infrastructure/postgres"
	"github.com/oksasatya/campuskart/internal/infrastructure/search"
	"github.com/oksasatya/campuskart/internal/infrastructure/storage"
	handlers "github.com/oksasatya/campuskart/internal/interface/http"
	"github.com/oksasatya/campuskart/internal/router/modules"
)

// Deps are the persistence and side-channel backends modules are built on.
type Deps struct {
	Users  repo.UserRepository
	Items  repo.ItemRepository
	Images application.ImageStore // nil disables uploads
	Index  application.ItemIndex  // nil falls back to SQL search
}

// Services are the application services behind the HTTP handlers.
type Services struct {
	Auth  *application.AuthService
	Items *application.ItemService
}

// DepsFromContainer builds the production backends from the container singletons.
func DepsFromContainer() Deps {
	cfg := container.GetConfig()
	gw := pginfra.NewGateway(container.GetPGPool(), cfg.DBAcquireTimeout)
	d := Deps{
		Users: pginfra.NewUserRepository(gw),
		Items: pginfra.NewItemRepository(gw),
	}
	switch cfg.ImageStore {
	case "gcs":
		if c := container.GetGCS(); c != nil {
			d.Images = storage.NewGCS(c, cfg.GCSBucket, cfg.MaxImageBytes)
		}
	case "s3":
		if c := container.GetS3(); c != nil {
			d.Images = storage.NewS3(c, cfg.S3Bucket, cfg.S3Region, cfg.S3PublicURL, cfg.MaxImageBytes)
		}
	}
	if es := container.GetES(); es != nil {
		d.Index = search.NewItemIndex(es, cfg.ESItemsIndex)
	}
	return d
}

// BuildServices wires application services from deps and the container singletons.
func BuildServices(d Deps) Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	return Services{
		Auth:  application.NewAuthService(d.Users, container.GetJWT(), container.GetNotifier(), cfg, logger),
		Items: application.NewItemService(d.Items, d.Users, d.Images, d.Index, logger, cfg.ItemImageRequired),
	}
}

// InitModules registers every feature module on the registry.
// It should be called once during startup, before RegisterAll.
func InitModules(r *Registry, svc Services) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	r.Health("/healthz")

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Auth, logger)))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.Auth, logger), svc.Auth))
	r.Add(modules.NewItemModule(handlers.NewItemHandler(svc.Items, logger, cfg.MaxImageBytes), svc.Auth))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
