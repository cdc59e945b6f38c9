package postgresql

/*
Зеркало записей трекеров в отдельной таблице PostgreSQL. Запись хранится целиком в JSONB.

host = "localhost"
port = "5432"
user = "postgres"
password = "postgres"
database = "tracker"
sslmode = "disable"
table = "tracker_mirror"        # необязательно
record_column = "record"        # необязательно
max_open_conns = 4              # необязательно
*/

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

const (
	defaultTable        = "tracker_mirror"
	defaultRecordColumn = "record"
	pingTimeout         = 5 * time.Second
)

type Connector struct {
	db     *sql.DB
	insert *sql.Stmt
}

func (c *Connector) Init(cfg map[string]string) error {
	if cfg == nil {
		return fmt.Errorf("некорректная ссылка на конфигурацию")
	}

	dsn := fmt.Sprintf("dbname=%s host=%s port=%s user=%s password=%s sslmode=%s",
		cfg["database"], cfg["host"], cfg["port"], cfg["user"], cfg["password"], cfg["sslmode"])
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("ошибка подключения к PostgreSQL: %w", err)
	}

	if v := cfg["max_open_conns"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			db.Close()
			return fmt.Errorf("некорректное значение max_open_conns: %w", err)
		}
		db.SetMaxOpenConns(n)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("PostgreSQL недоступен: %w", err)
	}

	table, column := cfg["table"], cfg["record_column"]
	if table == "" {
		table = defaultTable
	}
	if column == "" {
		column = defaultRecordColumn
	}
	log.WithFields(log.Fields{"table": table, "column": column}).Debug("Зеркало PostgreSQL")

	c.insert, err = db.Prepare(fmt.Sprintf("INSERT INTO %s (%s) VALUES ($1)", table, column))
	if err != nil {
		db.Close()
		return fmt.Errorf("не удалось подготовить запрос: %w", err)
	}
	c.db = db

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

	if _, err := c.insert.Exec(string(record)); err != nil {
		return fmt.Errorf("не удалось вставить запись: %w", err)
	}
	return nil
}

func (c *Connector) Close() error {
	if c.insert != nil {
		c.insert.Close()
	}
	return c.db.Close()
}
