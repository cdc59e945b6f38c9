package tarantool_queue

/*
Публикация записей трекеров в очередь Tarantool (модуль queue).

host = "localhost"
port = "3301"
user = "user"
password = "pass"
queue = "trackers"
max_recons = 5     # необязательно
timeout = 1        # секунды, необязательно
reconnect = 1      # секунды, необязательно
ttl = 3600         # секунды жизни задачи, 0 - без ограничения
*/

import (
	"fmt"
	"strconv"
	"time"

	"github.com/tarantool/go-tarantool"
	"github.com/tarantool/go-tarantool/queue"
)

type settings struct {
	addr          string
	queue         string
	opts          tarantool.Opts
	ttl           time.Duration
	maxReconnects int
}

func seconds(cfg map[string]string, name string, fallback int) (time.Duration, error) {
	n, err := integer(cfg, name, fallback)
	return time.Duration(n) * time.Second, err
}

func integer(cfg map[string]string, name string, fallback int) (int, error) {
	raw := cfg[name]
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("некорректное значение %s: %q", name, raw)
	}
	return n, nil
}

func parseSettings(cfg map[string]string) (settings, error) {
	s := settings{
		addr:  fmt.Sprintf("%s:%s", cfg["host"], cfg["port"]),
		queue: cfg["queue"],
	}
	if s.queue == "" {
		return s, fmt.Errorf("не задано имя очереди Tarantool")
	}

	var err error
	if s.maxReconnects, err = integer(cfg, "max_recons", 5); err != nil {
		return s, err
	}
	if s.opts.Timeout, err = seconds(cfg, "timeout", 1); err != nil {
		return s, err
	}
	if s.opts.Reconnect, err = seconds(cfg, "reconnect", 1); err != nil {
		return s, err
	}
	if s.ttl, err = seconds(cfg, "ttl", 0); err != nil {
		return s, err
	}
	s.opts.MaxReconnects = uint(s.maxReconnects)
	s.opts.User = cfg["user"]
	s.opts.Pass = cfg["password"]

	return s, nil
}

type Connector struct {
	connection *tarantool.Connection
	queue      queue.Queue
	ttl        time.Duration
}

func (c *Connector) Init(cfg map[string]string) error {
	if cfg == nil {
		return fmt.Errorf("некорректная ссылка на конфигурацию")
	}

	s, err := parseSettings(cfg)
	if err != nil {
		return err
	}

	c.connection, err = tarantool.Connect(s.addr, s.opts)
	if err != nil {
		return fmt.Errorf("не удалось подключиться к Tarantool: %w", err)
	}
	c.queue = queue.New(c.connection, s.queue)
	c.ttl = s.ttl

	return nil
}

func (c *Connector) Save(msg interface{ ToBytes() ([]byte, error) }) error {
	if msg == nil {
		return fmt.Errorf("некорректная ссылка на запись")
	}

	record, err := msg.ToBytes()
	if err != nil {
		return fmt.Errorf("ошибка сериализации записи: %w", err)
	}

	if c.ttl > 0 {
		_, err = c.queue.PutWithOpts(string(record), queue.Opts{Ttl: c.ttl})
	} else {
		_, err = c.queue.Put(string(record))
	}
	if err != nil {
		return fmt.Errorf("не удалось поставить запись в очередь: %w", err)
	}
	return nil
}

func (c *Connector) Close() error {
	return c.connection.Close()
}
