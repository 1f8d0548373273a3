package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gearguard/pkg/utils"
)

// SeedAdmin создает администратора, если его еще нет.
func SeedAdmin(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("Создание администратора...")

	if err := seedEmployee(ctx, db, "Администратор", "admin@gearguard.local", "admin12345", "ADMIN", nil); err != nil {
		log.Fatalf("Ошибка создания администратора: %v", err)
	}
	log.Println("Администратор готов: admin@gearguard.local / admin12345")
}

// SeedDemoData наполняет базу демонстрационными командами, сотрудниками
// и оборудованием. Запускается поверх миграций, идемпотентен.
func SeedDemoData(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("Наполнение демонстрационными данными...")

	mechanics, err := seedTeam(ctx, db, "Механики")
	if err != nil {
		log.Fatalf("Ошибка создания команды: %v", err)
	}
	electricians, err := seedTeam(ctx, db, "Электрики")
	if err != nil {
		log.Fatalf("Ошибка создания команды: %v", err)
	}

	type account struct {
		name  string
		email string
		role  string
		team  *uint64
	}
	accounts := []account{
		{"Менеджер механиков", "manager-mech@gearguard.local", "MANAGER", &mechanics},
		{"Менеджер электриков", "manager-elec@gearguard.local", "MANAGER", &electricians},
		{"Техник по станкам", "tech-mech@gearguard.local", "TECHNICIAN", &mechanics},
		{"Техник по сетям", "tech-elec@gearguard.local", "TECHNICIAN", &electricians},
		{"Оператор цеха", "employee@gearguard.local", "EMPLOYEE", nil},
	}
	for _, acc := range accounts {
		if err := seedEmployee(ctx, db, acc.name, acc.email, "password123", acc.role, acc.team); err != nil {
			log.Fatalf("Ошибка создания сотрудника %s: %v", acc.email, err)
		}
	}

	equipments := []struct {
		name     string
		serial   string
		location string
		category string
		team     uint64
	}{
		{"Токарный станок", "MX-1001", "Цех 1", "Heavy Machinery", mechanics},
		{"Фрезерный станок", "MX-1002", "Цех 1", "Heavy Machinery", mechanics},
		{"Погрузчик", "VH-2001", "Склад", "Vehicles", mechanics},
		{"Серверная стойка", "EL-3001", "Серверная", "Electronics", electricians},
		{"Сварочный аппарат", "EL-3002", "Цех 2", "Electronics", electricians},
	}
	for _, eq := range equipments {
		if err := seedEquipment(ctx, db, eq.name, eq.serial, eq.location, eq.category, eq.team); err != nil {
			log.Fatalf("Ошибка создания оборудования %s: %v", eq.serial, err)
		}
	}

	log.Println("Демонстрационные данные готовы (пароль всех учеток: password123)")
}

func seedTeam(ctx context.Context, db *pgxpool.Pool, name string) (uint64, error) {
	var id uint64
	err := db.QueryRow(ctx, "SELECT id FROM teams WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("ошибка проверки команды: %w", err)
	}

	err = db.QueryRow(ctx, "INSERT INTO teams (name) VALUES ($1) RETURNING id", name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка вставки команды: %w", err)
	}
	log.Printf("  - Команда %q создана", name)
	return id, nil
}

func seedEmployee(ctx context.Context, db *pgxpool.Pool, name, email, password, role string, teamID *uint64) error {
	var id uint64
	err := db.QueryRow(ctx, "SELECT id FROM employees WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("ошибка проверки сотрудника: %w", err)
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	_, err = db.Exec(ctx,
		"INSERT INTO employees (name, email, password, role, team_id) VALUES ($1, $2, $3, $4, $5)",
		name, email, passwordHash, role, teamID,
	)
	if err != nil {
		return fmt.Errorf("ошибка вставки сотрудника: %w", err)
	}
	log.Printf("  - Сотрудник %s (%s) создан", email, role)
	return nil
}

func seedEquipment(ctx context.Context, db *pgxpool.Pool, name, serial, location, category string, teamID uint64) error {
	var id uint64
	err := db.QueryRow(ctx, "SELECT id FROM equipments WHERE serial_number = $1", serial).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("ошибка проверки оборудования: %w", err)
	}

	var categoryID uint64
	if err := db.QueryRow(ctx, "SELECT id FROM equipment_categories WHERE name = $1", category).Scan(&categoryID); err != nil {
		return fmt.Errorf("не найдена категория %q: %w", category, err)
	}

	_, err = db.Exec(ctx,
		"INSERT INTO equipments (name, serial_number, location, category_id, team_id) VALUES ($1, $2, $3, $4, $5)",
		name, serial, location, categoryID, teamID,
	)
	if err != nil {
		return fmt.Errorf("ошибка вставки оборудования: %w", err)
	}
	log.Printf("  - Оборудование %s (%s) создано", name, serial)
	return nil
}
