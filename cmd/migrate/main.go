package main

import (
	"database/sql"
	"flag"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"maintenance-system/pkg/config"
)

func main() {
	var (
		dir     = flag.String("dir", "migrations", "каталог с миграциями")
		command = flag.String("command", "up", "команда goose: up, down, status, version")
	)
	flag.Parse()

	cfg := config.New()

	db, err := sql.Open("pgx", cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("не удалось открыть соединение с БД: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("не удалось установить диалект: %v", err)
	}

	if err := goose.Run(*command, db, *dir); err != nil {
		log.Fatalf("goose %s: %v", *command, err)
	}
}
