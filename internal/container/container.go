// Package container holds the process-wide clients built in cmd/main.go so the
// router can wire modules without threading every client through constructors.
package container

import (
	"sync"

	"cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campuskart/config"
	"github.com/oksasatya/campuskart/pkg/helpers"
	"github.com/oksasatya/campuskart/pkg/mailer"
)

var (
	mu sync.RWMutex

	cfg    *config.Config
	logger *logrus.Logger

	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	esClient    *elasticsearch.Client

	// listing images, whichever IMAGE_STORE selects
	gcsClient *storage.Client
	s3Client  *s3.Client

	jwtManager *helpers.JWTManager

	// verification email delivery
	notifier mailer.Notifier
)

func set[T any](dst *T, v T) {
	mu.Lock()
	*dst = v
	mu.Unlock()
}

func get[T any](src *T) T {
	mu.RLock()
	defer mu.RUnlock()
	return *src
}

func SetConfig(c *config.Config) { set(&cfg, c) }
func GetConfig() *config.Config  { return get(&cfg) }

func SetLogger(l *logrus.Logger) { set(&logger, l) }

// GetLogger never returns nil.
func GetLogger() *logrus.Logger {
	if l := get(&logger); l != nil {
		return l
	}
	return logrus.StandardLogger()
}

func SetPGPool(p *pgxpool.Pool)     { set(&pgPool, p) }
func GetPGPool() *pgxpool.Pool      { return get(&pgPool) }
func SetRedis(r *redis.Client)      { set(&redisClient, r) }
func GetRedis() *redis.Client       { return get(&redisClient) }
func SetES(c *elasticsearch.Client) { set(&esClient, c) }
func GetES() *elasticsearch.Client  { return get(&esClient) }
func SetGCS(c *storage.Client)      { set(&gcsClient, c) }
func GetGCS() *storage.Client       { return get(&gcsClient) }
func SetS3(c *s3.Client)            { set(&s3Client, c) }
func GetS3() *s3.Client             { return get(&s3Client) }

func SetJWT(m *helpers.JWTManager) { set(&jwtManager, m) }
func GetJWT() *helpers.JWTManager {
	if m := get(&jwtManager); m != nil {
		return m
	}
	return helpers.DefaultJWT()
}

// SetNotifier selects how verification emails leave the process (Mailgun, queue or log).
func SetNotifier(n mailer.Notifier) { set(&notifier, n) }

// GetNotifier falls back to logging the email when nothing was configured.
func GetNotifier() mailer.Notifier {
	if n := get(&notifier); n != nil {
		return n
	}
	return mailer.LogNotifier{Logger: GetLogger()}
}
