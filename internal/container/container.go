package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/feedwire/feedwire/config"
	"github.com/feedwire/feedwire/internal/realtime"
	"github.com/feedwire/feedwire/pkg/helpers"
	"github.com/feedwire/feedwire/pkg/storage"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	db          *mongo.Database
	redisClient *redis.Client
	esClient    *elasticsearch.Client

	jwtManager *helpers.JWTManager
	rabbitPub  *helpers.RabbitPublisher
	imageStore storage.ImageStore
	hub        *realtime.Hub
)

func SetConfig(c *config.Config)        { cfg = c }
func GetConfig() *config.Config         { return cfg }
func SetLogger(l *logrus.Logger)        { logger = l }
func GetLogger() *logrus.Logger         { return logger }
func SetMongo(d *mongo.Database)        { db = d }
func GetMongo() *mongo.Database         { return db }
func SetRedis(r *redis.Client)          { redisClient = r }
func GetRedis() *redis.Client           { return redisClient }
func SetES(c *elasticsearch.Client)     { esClient = c }
func GetES() *elasticsearch.Client      { return esClient }
func SetJWT(m *helpers.JWTManager)      { jwtManager = m }
func GetJWT() *helpers.JWTManager       { return jwtManager }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetImageStore(s storage.ImageStore) { imageStore = s }
func GetImageStore() storage.ImageStore  { return imageStore }
func SetHub(h *realtime.Hub)             { hub = h }
func GetHub() *realtime.Hub              { return hub }
