package root

import (
	"context"

	"become/internal/config"
	"become/internal/engine"
	"become/internal/logger"
	"become/internal/mirror"
	"become/internal/service"
	"become/internal/storage"
)

type app struct {
	cfg config.Config
	log *logger.Logger
	svc *service.Service
}

func openApp(ctx context.Context) (*app, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, nil, err
	}

	db, err := storage.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Sync()
		return nil, nil, err
	}

	opts := []service.Option{
		service.WithEngine(engine.New(engine.WithLocation(loc))),
		service.WithLogger(log),
	}
	if cfg.Redis.Addr != "" {
		m := mirror.NewRedis(mirror.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Key:      cfg.Redis.Key,
			Channel:  cfg.Redis.Channel,
			TTL:      cfg.Redis.TTL,
		})
		opts = append(opts, service.WithMirror(m, 0))
		log.Debug("redis mirror enabled", "addr", cfg.Redis.Addr, "key", cfg.Redis.Key)
	}
	svc := service.NewService(db, opts...)

	cleanup := func() {
		if err := svc.Close(); err != nil {
			log.Warn("close mirror", "error", err)
		}
		_ = db.Close()
		log.Sync()
	}
	return &app{cfg: cfg, log: log, svc: svc}, cleanup, nil
}

func openService(ctx context.Context) (*service.Service, func(), error) {
	a, cleanup, err := openApp(ctx)
	if err != nil {
		return nil, nil, err
	}
	return a.svc, cleanup, nil
}
