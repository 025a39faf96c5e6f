package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"maintenance-system/pkg/constants"
)

func seedAdmin(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Создание администратора...")

	email := "admin@maintenance.local"
	var userID uint64
	err := db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	if err == nil {
		log.Println("    - Администратор уже существует. Пропускаем.")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("не удалось захешировать пароль: %w", err)
	}

	query := `INSERT INTO users (fio, email, phone_number, password, role)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err = db.QueryRow(ctx, query,
		"Администратор системы",
		email,
		"",
		string(hash),
		string(constants.RoleAdmin),
	).Scan(&userID)
	if err != nil {
		return fmt.Errorf("ошибка при создании администратора: %w", err)
	}

	log.Printf("    - Администратор создан (id=%d). Пароль по умолчанию: admin", userID)
	return nil
}
