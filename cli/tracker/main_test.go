package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/daniil11ru/truck-tracker/cli/tracker/config"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetLogger(t *testing.T) {
	t.Cleanup(func() {
		log.StandardLogger().ReplaceHooks(make(log.LevelHooks))
		log.SetOutput(io.Discard)
		log.SetLevel(log.InfoLevel)
	})
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGetConfigRequiresPath(t *testing.T) {
	_, err := getConfig("")
	assert.Error(t, err)
}

func TestGetConfigWrapsParseError(t *testing.T) {
	_, err := getConfig(writeConfig(t, "api_port: [not a number"))
	assert.ErrorContains(t, err, "ошибка парсинга конфига")
}

func TestLogFileCreationAndContent(t *testing.T) {
	resetLogger(t)

	logPath := filepath.Join(t.TempDir(), "nested", "logs", "tracker.log")
	cfg := config.Config{LogLevel: "DEBUG", LogFilePath: logPath, LogMaxAgeDays: 3}

	configureLogging(cfg)
	log.SetOutput(io.Discard)

	assert.Equal(t, log.DebugLevel, log.GetLevel())

	message := "UNIQUE_TEST_MESSAGE_" + time.Now().Format(time.RFC3339Nano)
	log.WithField("tracker_id", "T1").Warn(message)

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), message)
	assert.Contains(t, string(content), "tracker_id=T1")
}

func TestLogRotationSetting(t *testing.T) {
	cfg := config.Config{LogFilePath: filepath.Join(t.TempDir(), "tracker.log"), LogMaxAgeDays: 14}

	hook := newFileHook(cfg)

	assert.ElementsMatch(t, log.AllLevels, hook.Levels())
}

func TestConnectionStrings(t *testing.T) {
	store := map[string]string{
		"host":     "db",
		"port":     "5432",
		"user":     "tracker",
		"password": "secret",
		"database": "trucks",
		"sslmode":  "disable",
	}

	assert.Equal(t, "host=db user=tracker password=secret dbname=trucks port=5432 sslmode=disable", primaryDSN(store))
	assert.Equal(t, "postgres://tracker:secret@db:5432/trucks?sslmode=disable", migrationsDatabaseURL(store))
}

func TestNewMirrorWithoutStores(t *testing.T) {
	mirror, closeMirror, err := newMirror(config.Mirror{})
	require.NoError(t, err)
	assert.Nil(t, mirror)
	closeMirror()
}

func TestNewMirrorUnknownStore(t *testing.T) {
	resetLogger(t)

	_, _, err := newMirror(config.Mirror{Stores: map[string]map[string]string{"carrier_pigeon": {}}})
	assert.Error(t, err)
}

func TestNewGeocodeCacheDisabled(t *testing.T) {
	cache, closeCache := newGeocodeCache(config.Config{})
	assert.Nil(t, cache)
	closeCache()
}

type shutdownRecorder struct {
	steps []string
	err   error
}

func (r *shutdownRecorder) Stop() {
	r.steps = append(r.steps, "scheduler")
}

func (r *shutdownRecorder) Shutdown(context.Context) error {
	r.steps = append(r.steps, "api")
	return r.err
}

func TestShutdownStopsSchedulerBeforeAPI(t *testing.T) {
	resetLogger(t)
	log.SetOutput(io.Discard)

	recorder := &shutdownRecorder{err: errors.New("deadline exceeded")}
	shutdown(context.Background(), recorder, recorder)

	assert.Equal(t, []string{"scheduler", "api"}, recorder.steps)
}
