package wire

import (
	"Gazette/internal/api"
	"Gazette/internal/api/config"
	"Gazette/internal/api/handler"
	"Gazette/internal/job"
	"Gazette/internal/pkg/cloudinary"
	"Gazette/internal/pkg/cron"
	"Gazette/internal/pkg/kafka"
	"Gazette/internal/pkg/media"
	"Gazette/internal/pkg/metrics"
	"Gazette/internal/pkg/minio"
	"Gazette/internal/pkg/security"
	"Gazette/internal/repository"
	"Gazette/internal/service"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

const (
	ProviderMinIO      = "minio"
	ProviderCloudinary = "cloudinary"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	CronMgr      *cron.Manager
	PostProducer *kafka.PostProducer
}

// Close 释放外部连接
func (s *ApplicationContainer) Close() {
	if s.PostProducer != nil {
		if err := s.PostProducer.Close(); err != nil {
			log.Error("Kafka producer close failed", "err", err)
		}
	}
	if sqlDB, err := s.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	gateway, err := NewMediaGateway(cfg.Media.Provider)
	if err != nil {
		return nil, err
	}

	postRepo := repository.NewPostRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	registry := media.NewRedisRegistry()
	mediaMetrics := metrics.Default()

	opts := service.PostServiceOptions{
		Policy: service.MediaPolicy{
			MaxImageSize: cfg.Media.MaxImageSize,
			MaxVideoSize: cfg.Media.MaxVideoSize,
		},
		CompensationTimeout: time.Duration(cfg.Media.CompensationTimeout) * time.Second,
		Registry:            registry,
		Metrics:             mediaMetrics,
	}

	var producer *kafka.PostProducer
	if cfg.Kafka.Enable {
		producer, err = kafka.NewPostProducer(cfg.Kafka)
		if err != nil {
			return nil, err
		}
		opts.Publisher = producer
	}

	postService := service.NewPostService(postRepo, categoryRepo, gateway, opts)
	categoryService := service.NewCategoryService(categoryRepo)

	handlers := &api.HandlersGroup{
		PostHandler:     handler.NewPostHandler(postService),
		CategoryHandler: handler.NewCategoryHandler(categoryService),
	}

	tokens := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, 0)
	router := api.SetupRouter(handlers, tokens, &cfg.Logstash, prometheus.DefaultGatherer)

	cleanupJob := job.NewMediaCleanupJob(registry, postRepo, gateway, job.NewRedisLocker(), mediaMetrics,
		time.Duration(cfg.Media.PendingGrace)*time.Second)
	cronMgr := cron.NewCronManager(cfg.Media.CleanupSpec, cleanupJob)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		CronMgr:      cronMgr,
		PostProducer: producer,
	}, nil
}

// NewMediaGateway 按配置初始化媒体存储
func NewMediaGateway(provider string) (media.Gateway, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderMinIO:
		if err := minio.Init(); err != nil {
			return nil, err
		}
		return minio.NewGateway(), nil
	case ProviderCloudinary:
		if err := cloudinary.Init(); err != nil {
			return nil, err
		}
		return cloudinary.NewGateway(), nil
	default:
		return nil, fmt.Errorf("unknown media provider %q", provider)
	}
}
