package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/annel0/voxel-terrain/internal/api"
	"github.com/annel0/voxel-terrain/internal/config"
	"github.com/annel0/voxel-terrain/internal/engine"
	"github.com/annel0/voxel-terrain/internal/eventbus"
	"github.com/annel0/voxel-terrain/internal/logging"
	"github.com/annel0/voxel-terrain/internal/observability"
	"github.com/annel0/voxel-terrain/internal/storage"
	"github.com/annel0/voxel-terrain/internal/vec"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигу (по умолчанию $VOXEL_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	level := logging.ParseLevel(cfg.Logging.Level)
	logOpts := logging.Options{Dir: cfg.Logging.Dir, ConsoleLevel: level, FileLevel: logging.DEBUG}
	if !cfg.Logging.Console {
		logOpts.Console = io.Discard
	}
	if err := logging.InitDefaultLogger(logOpts); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	logging.GetLoggerManager().Configure(cfg.Logging.Components)

	if err := run(cfg); err != nil {
		logging.Error("❌ %v", err)
		logging.CloseDefaultLogger()
		os.Exit(1)
	}
	logging.Info("👋 Сервер успешно остановлен")
}

func run(cfg *config.Config) error {
	logging.Info("🌍 Запуск voxel-terrain: seed=%d noise=%s storage=%s", cfg.World.Seed, cfg.World.NoiseBackend, cfg.Storage.Backend)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === Телеметрия ===
	shutdownTelemetry, err := observability.InitTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("телеметрия: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logging.Warn("Остановка телеметрии: %v", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// === Хранилище ===
	store, err := storage.Open(ctx, storageOptions(cfg.Storage))
	if err != nil {
		return err
	}
	adapter := storage.NewAdapter(store, cfg.Storage.Key)
	defer adapter.Close()

	// === Шина событий ===
	bus, err := openBus(cfg.EventBus)
	if err != nil {
		return err
	}
	defer bus.Close()
	if _, err := eventbus.StartLoggingListener(bus); err != nil {
		logging.Warn("LoggingListener не запущен: %v", err)
	}
	busMetrics := eventbus.NewMetricsExporter(bus, registry)
	busMetrics.Start()
	defer busMetrics.Stop()

	// === Мир ===
	eng, err := engine.New(engine.Options{
		Seed:             cfg.World.Seed,
		NoiseBackend:     cfg.World.NoiseBackend,
		UsePipeline:      cfg.Pipeline.Enabled,
		MaxWorkers:       cfg.Pipeline.MaxWorkers,
		ResultBuffer:     cfg.Pipeline.ResultBuffer,
		FluidInterval:    cfg.Fluid.TickInterval(),
		RefinePerTick:    cfg.Mesh.RefinePerTick,
		Storage:          adapter,
		AutosaveInterval: cfg.Storage.AutosaveInterval(),
		SaveOnEdit:       cfg.Storage.SaveOnEdit,
		Bus:              bus,
		Registerer:       registry,
	})
	if err != nil {
		return err
	}
	if n, err := eng.Load(ctx); err != nil {
		return err
	} else if n > 0 {
		logging.Info("💾 Восстановлено %d изменённых чанков", n)
	}

	area := vec.Area(vec.Vec2{}, cfg.World.PreloadRadius)
	eng.SetActive(area)
	eng.EnsureArea(vec.Vec2{}, cfg.World.PreloadRadius)

	worldDone := make(chan error, 1)
	go func() { worldDone <- eng.Run(ctx) }()

	// === REST API ===
	rest := api.NewRestServer(api.Config{
		Port:     fmt.Sprintf(":%d", cfg.Server.GetRESTPort()),
		World:    eng,
		Registry: registry,
	})
	restDone := make(chan error, 1)
	go func() { restDone <- rest.Start() }()

	logging.Info("✅ Все сервисы запущены")
	logging.Info("   ❤️  Health check: http://localhost:%d/health", cfg.Server.GetRESTPort())

	select {
	case <-ctx.Done():
		logging.Info("📡 Получен сигнал завершения, остановка...")
	case err := <-restDone:
		if err != nil {
			logging.Error("REST API остановлен: %v", err)
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := rest.Stop(shutdownCtx); err != nil {
		logging.Error("❌ Ошибка остановки REST API: %v", err)
	}

	// Run сохраняет мир перед выходом
	return <-worldDone
}

func storageOptions(s config.StorageConfig) storage.Options {
	redisCfg := storage.DefaultRedisConfig()
	redisCfg.Addr = s.GetRedisAddr()
	redisCfg.Password = s.Redis.Password
	redisCfg.DB = s.Redis.DB
	if s.Redis.KeyPrefix != "" {
		redisCfg.KeyPrefix = s.Redis.KeyPrefix
	}
	redisCfg.TTL = time.Duration(s.Redis.TTLSeconds) * time.Second

	return storage.Options{
		Backend:  s.Backend,
		Path:     s.Path,
		Compress: s.Compress,
		Redis:    *redisCfg,
		MySQLDSN: s.GetMySQLDSN(),
		Mongo: storage.MongoConfig{
			URI:      s.GetMongoURI(),
			Database: s.MongoDatabase,
		},
	}
}

// openBus NATS при заданном URL, иначе шина в памяти
func openBus(cfg config.EventBusConfig) (eventbus.EventBus, error) {
	if cfg.NATSURL == "" {
		return eventbus.NewMemoryBus(1024), nil
	}
	bus, err := eventbus.NewNATSBus(cfg.NATSURL, cfg.Subject)
	if err != nil {
		return nil, err
	}
	logging.Info("📨 События публикуются в NATS %s (%s.*)", cfg.NATSURL, cfg.Subject)
	return bus, nil
}
