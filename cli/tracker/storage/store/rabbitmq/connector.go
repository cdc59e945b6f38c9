package rabbitmq

/*
Плагин для отправки записей в RabbitMQ.

Раздел настроек, которые должны быть в конфиге для подключения хранилища:

host = "localhost"
port = "5672"
user = "guest"
password = "guest"
exchange = "trackers"
key = "tracker_data"
*/

import (
	"fmt"

	"github.com/streadway/amqp"
)

func amqpURL(cfg map[string]string) string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg["user"], cfg["password"], cfg["host"], cfg["port"])
}

type Connector struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	config     map[string]string
}

func (c *Connector) Init(cfg map[string]string) error {
	var err error
	if cfg == nil {
		return fmt.Errorf("некорректная ссылка на конфигурацию")
	}
	c.config = cfg

	if c.config["exchange"] == "" {
		return fmt.Errorf("не задана точка обмена RabbitMQ")
	}

	if c.connection, err = amqp.Dial(amqpURL(c.config)); err != nil {
		return fmt.Errorf("ошибка установки соединения с RabbitMQ: %w", err)
	}

	if c.channel, err = c.connection.Channel(); err != nil {
		c.connection.Close()
		return fmt.Errorf("ошибка открытия канала RabbitMQ: %w", err)
	}

	if err = c.channel.ExchangeDeclare(c.config["exchange"], "topic", true, false, false, false, nil); err != nil {
		c.channel.Close()
		c.connection.Close()
		return fmt.Errorf("не удалось объявить точку обмена RabbitMQ: %w", err)
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

	if err = c.channel.Publish(
		c.config["exchange"],
		c.config["key"],
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         innerPkg,
		},
	); err != nil {
		return fmt.Errorf("не удалось отправить сообщение: %v", err)
	}
	return nil
}

func (c *Connector) Close() error {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	return c.connection.Close()
}
