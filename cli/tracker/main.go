package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/daniil11ru/truck-tracker/cli/tracker/api"
	"github.com/daniil11ru/truck-tracker/cli/tracker/config"
	"github.com/daniil11ru/truck-tracker/cli/tracker/domain"
	"github.com/daniil11ru/truck-tracker/cli/tracker/repository"
	"github.com/daniil11ru/truck-tracker/cli/tracker/scheduler"
	"github.com/daniil11ru/truck-tracker/cli/tracker/source"
	"github.com/daniil11ru/truck-tracker/cli/tracker/source/geocode"
	"github.com/daniil11ru/truck-tracker/cli/tracker/source/telemetry"
	"github.com/daniil11ru/truck-tracker/cli/tracker/storage"

	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configFilePath := ""
	flag.StringVar(&configFilePath, "c", "", "")
	flag.Parse()
	config, err := getConfig(configFilePath)
	if err != nil {
		log.Fatalf("Не удалось получить конфиг: %v", err)
		return
	}

	configureLogging(config)

	if err := applyMigrations(config); err != nil {
		log.Fatalf("Не удалось применить миграции: %v", err)
		return
	}

	primarySource, err := source.NewDefaultPrimary(primaryDSN(config.Store))
	if err != nil {
		log.Fatalf("Не удалось инициализировать источник данных: %v", err)
		return
	}
	defer primarySource.Close()

	mirror, closeMirror, err := newMirror(config.Mirror)
	if err != nil {
		log.Fatalf("Не удалось подключить внешние хранилища: %v", err)
		return
	}
	defer closeMirror()

	cache, closeCache := newGeocodeCache(config)
	defer closeCache()

	trackerData := repository.NewTrackerDataDefault(primarySource, mirror)

	runIngestion := &domain.RunIngestion{
		Telemetry:  telemetry.NewClient(config.Telemetry.URL, config.Telemetry.BearerToken, config.GetTelemetryTimeout()),
		Geocoder:   geocode.NewResolver(config.Geocode.Host, config.Geocode.UserAgent, config.GetGeocodeTimeout(), cache),
		Repository: trackerData,
	}

	refreshScheduler, err := scheduler.New(runIngestion, config.RefreshCronExpression)
	if err != nil {
		log.Fatalf("Не удалось запланировать обновление данных: %v", err)
		return
	}
	refreshScheduler.Start()
	log.WithField("cron", config.RefreshCronExpression).Info("Запланировано обновление данных трекеров")

	handler := api.NewHandler(
		&domain.ListTrackers{Repository: trackerData},
		&domain.GetLatestTrackers{Repository: trackerData},
		&domain.GetTrackerHistory{Repository: trackerData},
		refreshScheduler,
	)
	controller := api.NewController(handler)

	apiErr := make(chan error, 1)
	go func() {
		log.Infof("Запуск API на порту %d", config.ApiPort)
		apiErr <- controller.Run(config.ApiPort)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.WithField("signal", sig.String()).Info("Получен сигнал завершения")
	case err := <-apiErr:
		if err != nil {
			log.WithField("err", err).Error("API остановлен с ошибкой")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	shutdown(ctx, refreshScheduler, controller)
	log.Info("Сервис остановлен")
}

type stopper interface {
	Stop()
}

type apiServer interface {
	Shutdown(ctx context.Context) error
}

// shutdown сначала останавливает планировщик: запросы на обновление,
// ожидающие цикла, получают ответ до того, как API перестанет принимать соединения
func shutdown(ctx context.Context, refreshScheduler stopper, server apiServer) {
	refreshScheduler.Stop()
	if err := server.Shutdown(ctx); err != nil {
		log.WithField("err", err).Error("Ошибка остановки API")
	}
}

func getConfig(configFilePath string) (config.Config, error) {
	var c config.Config
	var err error

	if configFilePath == "" {
		return c, errors.New("не задан путь до конфига")
	}

	c, err = config.NewConfig(configFilePath)
	if err != nil {
		return c, fmt.Errorf("ошибка парсинга конфига: %w", err)
	}

	return c, nil
}

func configureLogging(config config.Config) {
	log.SetLevel(config.GetLogLevel())

	consoleFmt := &log.TextFormatter{ForceColors: true, FullTimestamp: false}
	log.SetFormatter(consoleFmt)
	log.SetOutput(os.Stdout)

	if config.LogFilePath != "" {
		logDir := filepath.Dir(config.LogFilePath)
		if _, err := os.Stat(logDir); os.IsNotExist(err) {
			if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
				log.Fatalf("Не получилось создать директорию для логов: %v", err)
			}
		}

		log.AddHook(newFileHook(config))
	}
}

func newFileHook(config config.Config) *lfshook.LfsHook {
	lumberjackLogger := &lumberjack.Logger{
		Filename:   config.LogFilePath,
		MaxSize:    100,
		MaxBackups: 366,
		MaxAge:     config.LogMaxAgeDays,
		Compress:   true,
	}

	writers := lfshook.WriterMap{}
	for _, level := range log.AllLevels {
		writers[level] = lumberjackLogger
	}

	return lfshook.NewHook(writers, &log.TextFormatter{DisableColors: true, FullTimestamp: true})
}

func primaryDSN(store map[string]string) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		store["host"], store["user"], store["password"], store["database"], store["port"], store["sslmode"])
}

func migrationsDatabaseURL(store map[string]string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		store["user"], store["password"], store["host"], store["port"], store["database"], store["sslmode"])
}

func applyMigrations(config config.Config) error {
	m, err := migrate.New(
		config.MigrationsPath,
		migrationsDatabaseURL(config.Store),
	)
	if err != nil {
		return fmt.Errorf("ошибка инициализации миграций: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("Нет новых миграций для применения")
			return nil
		}
		return fmt.Errorf("ошибка применения миграций: %w", err)
	}

	log.Info("Миграции успешно применены")
	return nil
}

// newMirror возвращает nil, если внешние хранилища не настроены
func newMirror(cfg config.Mirror) (storage.Saver, func(), error) {
	if len(cfg.Stores) == 0 {
		return nil, func() {}, nil
	}

	repo := storage.NewRepository()
	if err := repo.LoadStorages(cfg.Stores); err != nil {
		_ = repo.Close()
		return nil, nil, err
	}
	log.WithField("stores", repo.Len()).Info("Подключены внешние хранилища")

	async := storage.NewAsyncRepository(repo, cfg.Buffer, cfg.Workers)
	return async, func() {
		async.Close()
		if err := repo.Close(); err != nil {
			log.WithField("err", err).Warn("Ошибка закрытия внешних хранилищ")
		}
	}, nil
}

// newGeocodeCache без Redis адреса запрашиваются при каждом цикле
func newGeocodeCache(config config.Config) (geocode.Cache, func()) {
	if !config.IsGeocodeCacheEnabled() {
		return nil, func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.GetGeocodeTimeout())
	defer cancel()

	cache, err := geocode.NewRedisCache(ctx, config.Geocode.Cache.Addr, config.Geocode.Cache.Password, config.Geocode.Cache.DB, config.GetGeocodeCacheTTL())
	if err != nil {
		log.WithField("err", err).Warn("Кэш адресов отключен")
		return nil, func() {}
	}

	return cache, func() { _ = cache.Close() }
}
