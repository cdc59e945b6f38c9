package storage

import (
	"errors"

	"github.com/daniil11ru/truck-tracker/cli/tracker/storage/store/mysql"
	"github.com/daniil11ru/truck-tracker/cli/tracker/storage/store/nats"
	"github.com/daniil11ru/truck-tracker/cli/tracker/storage/store/postgresql"
	"github.com/daniil11ru/truck-tracker/cli/tracker/storage/store/rabbitmq"
	"github.com/daniil11ru/truck-tracker/cli/tracker/storage/store/redis"
	"github.com/daniil11ru/truck-tracker/cli/tracker/storage/store/tarantool_queue"
)

var ErrInvalidStorage = errors.New("storage not found")
var ErrUnknownStorage = errors.New("storage isn't support yet")

type Store interface {
	Connector
	Saver
}

// Saver интерфейс для подключения внешних хранилищ
type Saver interface {
	// Save сохранение в хранилище
	Save(interface{ ToBytes() ([]byte, error) }) error
}

// Connector интерфейс для подключения внешних хранилищ
type Connector interface {
	// Init установка соединения с хранилищем
	Init(map[string]string) error

	// Close закрытие соединения с хранилищем
	Close() error
}

// Repository набор хранилищ, в которые дублируются принятые записи
type Repository struct {
	storages []Saver
	closers  []Connector
}

// AddStore добавляет хранилище для сохранения данных
func (r *Repository) AddStore(s Saver) {
	r.storages = append(r.storages, s)
	if c, ok := s.(Connector); ok {
		r.closers = append(r.closers, c)
	}
}

// Len количество подключенных хранилищ
func (r *Repository) Len() int {
	return len(r.storages)
}

// Save сохраняет данные во все установленные хранилища, ошибка одного не мешает остальным
func (r *Repository) Save(m interface{ ToBytes() ([]byte, error) }) error {
	var errs []error
	for _, store := range r.storages {
		if err := store.Save(m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LoadStorages загружает хранилища из структуры конфига
func (r *Repository) LoadStorages(storages map[string]map[string]string) error {
	if len(storages) == 0 {
		return ErrInvalidStorage
	}

	for name, params := range storages {
		db, err := newStore(name)
		if err != nil {
			return err
		}

		if err := db.Init(params); err != nil {
			return err
		}

		r.AddStore(db)
	}
	return nil
}

// Close закрывает соединения со всеми хранилищами
func (r *Repository) Close() error {
	var errs []error
	for _, c := range r.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func newStore(name string) (Store, error) {
	switch name {
	case "rabbitmq":
		return &rabbitmq.Connector{}, nil
	case "postgresql":
		return &postgresql.Connector{}, nil
	case "nats":
		return &nats.Connector{}, nil
	case "tarantool_queue":
		return &tarantool_queue.Connector{}, nil
	case "redis":
		return &redis.Connector{}, nil
	case "mysql":
		return &mysql.Connector{}, nil
	default:
		return nil, ErrUnknownStorage
	}
}

// NewRepository создает пустой репозиторий
func NewRepository() *Repository {
	return &Repository{}
}
