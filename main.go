// File: labprobe/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"labprobe/client"
	"labprobe/config"
	"labprobe/models"
	"labprobe/services/auth"
	"labprobe/services/catalog"
	"labprobe/services/directory"
	"labprobe/services/order"
	"labprobe/services/pricing"
	"labprobe/services/slots"
	"labprobe/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	cfg := config.AppConfig
	exec := client.NewHTTPExecutor(cfg.BaseURL, config.RequestTimeout(), cfg.RequestsPerMin)

	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisCacheDB,
		})
	}

	authSvc := &auth.DefaultAuthService{
		Exec:        exec,
		CountryCode: cfg.CountryCode,
		StaticOTP:   cfg.StaticOTP,
	}
	orders := &order.DefaultOrderService{
		Exec:      exec,
		Auth:      authSvc,
		Catalog:   &catalog.DefaultCatalogService{Exec: exec},
		Directory: &directory.DefaultDirectoryService{Exec: exec, Cache: cache, TTL: cfg.DirectoryTTL},
		Slots:     &slots.DefaultSlotService{Exec: exec, HorizonDays: cfg.SlotHorizonDays},
		Pricing: &pricing.DefaultPricingService{
			Policy:           cfg.MemberPricePolicy,
			KnownBadProducts: cfg.KnownBadProducts,
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	actors := []models.ActorType{models.ActorMember, models.ActorNonMember, models.ActorNewUser}
	results := make([]*order.Result, len(actors))

	var wg sync.WaitGroup
	for i, actor := range actors {
		wg.Add(1)
		go func(i int, actor models.ActorType) {
			defer wg.Done()
			results[i] = orders.Run(ctx, actor, cfg.Products)
		}(i, actor)
	}
	wg.Wait()

	failed := 0
	for _, res := range results {
		fields := []zap.Field{
			zap.String("actor", string(res.Actor)),
			zap.String("outcome", string(res.Outcome)),
			zap.Int("steps_run", len(res.StepsRun)),
		}
		if res.Reconcile != nil {
			fields = append(fields,
				zap.Int("expected_total", res.Reconcile.ExpectedTotal),
				zap.Int("pricing_warnings", len(res.Reconcile.Warnings)))
		}
		if res.Outcome == order.OutcomeFailed {
			failed++
			fields = append(fields, zap.String("failed_at", res.FailedAt), zap.Error(res.Err))
			logger.Error("order flow failed", fields...)
			continue
		}
		logger.Info("order flow finished", fields...)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
