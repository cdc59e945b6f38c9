package mysql

/*
Настройки для подключения хранилища MySQL:

host = "localhost"
port = "3306"
user = "root"
password = "root"
database = "tracker"
table = "tracker_mirror"
*/

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

func dsn(cfg map[string]string) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&timeout=5s",
		cfg["user"], cfg["password"], cfg["host"], cfg["port"], cfg["database"])
}

func insertQuery(table string) string {
	if table == "" {
		table = "tracker_mirror"
	}
	return fmt.Sprintf("INSERT INTO %s (record, received_at) VALUES (?, ?)", table)
}

type Connector struct {
	connection  *sql.DB
	config      map[string]string
	insertQuery string
}

func (c *Connector) Init(cfg map[string]string) error {
	var err error
	if cfg == nil {
		return fmt.Errorf("некорректная ссылка на конфигурацию")
	}
	c.config = cfg

	if c.connection, err = sql.Open("mysql", dsn(c.config)); err != nil {
		return fmt.Errorf("ошибка подключения к MySQL: %v", err)
	}
	c.connection.SetConnMaxLifetime(3 * time.Minute)

	if err = c.connection.Ping(); err != nil {
		c.connection.Close()
		return fmt.Errorf("MySQL недоступен: %w", err)
	}

	c.insertQuery = insertQuery(c.config["table"])

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

	if _, err = c.connection.Exec(c.insertQuery, innerPkg, time.Now().UTC()); err != nil {
		return fmt.Errorf("не удалось вставить запись: %v", err)
	}
	return nil
}

func (c *Connector) Close() error {
	return c.connection.Close()
}
