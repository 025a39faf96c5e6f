package postgresql

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func ConnectDB(dsn string) *pgxpool.Pool {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatalf("не удалось создать пул соединений с БД: %v", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("не удалось подключиться к БД: %v", err)
	}

	return pool
}
