package router

import (
	"github.com/feedwire/feedwire/internal/application"
	"github.com/feedwire/feedwire/internal/container"
	gql "github.com/feedwire/feedwire/internal/interface/graphql"
	handlers "github.com/feedwire/feedwire/internal/interface/http"
	"github.com/feedwire/feedwire/internal/router/modules"
	"github.com/feedwire/feedwire/internal/search"

	"github.com/feedwire/feedwire/internal/infrastructure/mongodb"
)

// InitModules builds the services from container singletons and registers
// every feature module. Called once during startup.
func InitModules(r *Registry) error {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	db := container.GetMongo()

	users := mongodb.NewUserRepository(db)
	posts := mongodb.NewPostRepository(db)
	index := search.NewPostIndex(container.GetES(), cfg.ESPostsIndex, logger)

	authSvc := application.NewAuthService(users, container.GetJWT(), container.GetRabbitPub(), logger)
	feedSvc := application.NewFeedService(posts, users, container.GetImageStore(), container.GetHub(), index, logger, cfg.FeedPageSize)

	authHandler := handlers.NewAuthHandler(authSvc, logger)
	feedHandler := handlers.NewFeedHandler(feedSvc, container.GetImageStore(), logger)

	schema, err := gql.New(authSvc, feedSvc)
	if err != nil {
		return err
	}
	gqlHandler := gql.NewHandler(schema, logger)

	r.Add(modules.NewAuthModule(authHandler))
	r.Add(modules.NewFeedModule(feedHandler))
	r.Add(modules.NewGraphQLModule(gqlHandler))
	r.Add(modules.NewRealtimeModule(container.GetHub()))
	if cfg.StorageDriver == "local" {
		r.Add(modules.NewStaticModule(cfg.UploadURLPrefix, cfg.UploadDir))
	}
	return nil
}
