package nats

/*
Плагин для отправки записей в NATS.

Раздел настроек, которые должны быть в конфиге для подключения хранилища:

servers = "nats://localhost:4222"
subject = "trackers"
user = ""
password = ""
*/

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

type Connector struct {
	connection *nats.Conn
	config     map[string]string
}

func (c *Connector) Init(cfg map[string]string) error {
	var err error
	if cfg == nil {
		return fmt.Errorf("некорректная ссылка на конфигурацию")
	}
	c.config = cfg

	if c.config["subject"] == "" {
		return fmt.Errorf("не задана тема NATS")
	}

	servers := c.config["servers"]
	if servers == "" {
		servers = nats.DefaultURL
	}

	opts := []nats.Option{nats.Name("truck-tracker")}
	if c.config["user"] != "" {
		opts = append(opts, nats.UserInfo(c.config["user"], c.config["password"]))
	}

	if c.connection, err = nats.Connect(servers, opts...); err != nil {
		return fmt.Errorf("не удалось подключиться к NATS: %v", err)
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

	if err = c.connection.Publish(c.config["subject"], innerPkg); err != nil {
		return fmt.Errorf("не удалось отправить сообщение: %v", err)
	}
	return nil
}

func (c *Connector) Close() error {
	if err := c.connection.Drain(); err != nil {
		c.connection.Close()
		return err
	}
	return nil
}
