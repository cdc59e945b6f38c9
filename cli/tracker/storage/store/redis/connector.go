package redis

/*
Плагин для публикации записей в канал Redis.

Раздел настроек для подключения хранилища:

host = "localhost"
port = "6379"
password = ""
channel = "trackers"
*/

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

type Connector struct {
	connection *redis.Client
	config     map[string]string
}

func (c *Connector) Init(cfg map[string]string) error {
	if cfg == nil {
		return fmt.Errorf("некорректная ссылка на конфигурацию")
	}
	c.config = cfg

	if c.config["channel"] == "" {
		return fmt.Errorf("не задан канал Redis")
	}

	c.connection = redis.NewClient(&redis.Options{
		Addr:       fmt.Sprintf("%s:%s", c.config["host"], c.config["port"]),
		Password:   c.config["password"],
		MaxRetries: -1,
	})

	if err := c.connection.Ping(context.Background()).Err(); err != nil {
		c.connection.Close()
		return fmt.Errorf("Redis недоступен: %w", err)
	}
	return nil
}

func (c *Connector) Save(msg interface{ ToBytes() ([]byte, error) }) error {
	if msg == nil {
		return fmt.Errorf("некорректная ссылка на запись")
	}

	innerPkg, err := msg.ToBytes()
	if err != nil {
		return fmt.Errorf("ошибка сериализации записи: %v", err)
	}

	if err = c.connection.Publish(context.Background(), c.config["channel"], innerPkg).Err(); err != nil {
		return fmt.Errorf("не удалось отправить сообщение: %v", err)
	}
	return nil
}

func (c *Connector) Close() error {
	return c.connection.Close()
}
