package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"maintenance-system/pkg/constants"
)

var demoTeams = []string{
	"Механический цех",
	"Электрики",
}

type demoUser struct {
	fio      string
	email    string
	role     constants.Role
	teamName string
}

var demoUsers = []demoUser{
	{"Менеджер Механического цеха", "manager-mech@maintenance.local", constants.RoleManager, "Механический цех"},
	{"Техник Первый", "tech1@maintenance.local", constants.RoleTechnician, "Механический цех"},
	{"Техник Второй", "tech2@maintenance.local", constants.RoleTechnician, "Электрики"},
}

type demoEquipment struct {
	name         string
	serialNumber string
	department   string
	location     string
	teamName     string
}

var demoEquipments = []demoEquipment{
	{"Токарный станок 16К20", "TS-16K20-001", "Производство", "Цех 1", "Механический цех"},
	{"Фрезерный станок 6Р13", "FS-6R13-002", "Производство", "Цех 1", "Механический цех"},
	{"Компрессор АВ-500", "KP-AB500-003", "Энергетика", "Подвал", "Электрики"},
}

func teamIDByName(ctx context.Context, db *pgxpool.Pool, name string) (uint64, error) {
	var id uint64
	if err := db.QueryRow(ctx, "SELECT id FROM teams WHERE name = $1 AND deleted_at IS NULL", name).Scan(&id); err != nil {
		return 0, fmt.Errorf("не найдена команда %q: %w", name, err)
	}
	return id, nil
}

func seedDemoTeams(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Создание демо-команд...")
	for _, name := range demoTeams {
		var id uint64
		err := db.QueryRow(ctx, "SELECT id FROM teams WHERE name = $1 AND deleted_at IS NULL", name).Scan(&id)
		if err == nil {
			continue
		}
		if _, err := db.Exec(ctx, "INSERT INTO teams (name) VALUES ($1)", name); err != nil {
			return fmt.Errorf("не удалось создать команду %q: %w", name, err)
		}
	}
	return nil
}

func seedDemoUsers(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Создание демо-пользователей...")
	for _, u := range demoUsers {
		var id uint64
		err := db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", u.email).Scan(&id)
		if err == nil {
			continue
		}

		teamID, err := teamIDByName(ctx, db, u.teamName)
		if err != nil {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		_, err = db.Exec(ctx,
			`INSERT INTO users (fio, email, phone_number, password, role, team_id)
			 VALUES ($1, $2, '', $3, $4, $5)`,
			u.fio, u.email, string(hash), string(u.role), teamID)
		if err != nil {
			return fmt.Errorf("не удалось создать пользователя %q: %w", u.email, err)
		}
	}
	return nil
}

func seedDemoEquipment(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Создание демо-оборудования...")
	for _, e := range demoEquipments {
		var id uint64
		err := db.QueryRow(ctx, "SELECT id FROM equipments WHERE serial_number = $1", e.serialNumber).Scan(&id)
		if err == nil {
			continue
		}

		teamID, err := teamIDByName(ctx, db, e.teamName)
		if err != nil {
			return err
		}

		_, err = db.Exec(ctx,
			`INSERT INTO equipments (name, serial_number, department, location, team_id)
			 VALUES ($1, $2, $3, $4, $5)`,
			e.name, e.serialNumber, e.department, e.location, teamID)
		if err != nil {
			return fmt.Errorf("не удалось создать оборудование %q: %w", e.serialNumber, err)
		}
	}
	return nil
}
