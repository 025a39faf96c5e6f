package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"maintenance-system/pkg/config"
)

// SeedCore создаёт администратора системы. Без него в новую базу
// невозможно войти: все операции требуют аутентифицированного актора.
func SeedCore(db *pgxpool.Pool, cfg *config.Config) {
	ctx := context.Background()
	log.Println("▶️  Запуск базового сидирования...")

	if err := seedAdmin(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка создания администратора: %v", err)
	}

	log.Println("✅ Базовое сидирование завершено!")
}

// SeedDemo наполняет базу демонстрационными данными: команды, техники,
// менеджер и оборудование.
func SeedDemo(db *pgxpool.Pool, cfg *config.Config) {
	ctx := context.Background()
	log.Println("▶️  Запуск демо-сидирования...")

	if err := seedDemoTeams(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения команд: %v", err)
	}
	if err := seedDemoUsers(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения пользователей: %v", err)
	}
	if err := seedDemoEquipment(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения оборудования: %v", err)
	}

	log.Println("✅ Демо-сидирование завершено!")
}
