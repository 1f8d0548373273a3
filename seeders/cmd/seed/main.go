package main

import (
	"flag"
	"log"

	"gearguard/migrations"
	"gearguard/pkg/config"
	"gearguard/pkg/database/postgresql"
	"gearguard/seeders"
)

func main() {
	runAdmin := flag.Bool("admin", false, "Создать администратора")
	runDemo := flag.Bool("demo", false, "Наполнить базу демонстрационными данными")
	runAll := flag.Bool("all", false, "Запустить все сидеры")
	flag.Parse()

	if !*runAdmin && !*runDemo && !*runAll {
		log.Println("Не выбран ни один сидер для запуска.")
		flag.PrintDefaults()
		return
	}

	cfg := config.New()
	log.Println("Используется DSN:", cfg.Postgres.DSN)

	if err := migrations.Up(cfg.Postgres.DSN); err != nil {
		log.Fatalf("Не удалось применить миграции: %v", err)
	}

	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbPool.Close()

	if *runAll || *runAdmin {
		seeders.SeedAdmin(dbPool)
	}
	if *runAll || *runDemo {
		seeders.SeedDemoData(dbPool)
	}

	log.Println("Сидирование завершено.")
}
