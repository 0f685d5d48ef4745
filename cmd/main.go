package main

import (
	"flag"

	"recipe-share/cmd/config"
	migration "recipe-share/cmd/database/migrate"
	"recipe-share/internal/utils"

	"github.com/gofiber/fiber/v2/log"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	migrateOnly := flag.Bool("migrate", false, "run database migrations and exit")
	flag.Parse()

	if err := utils.LoadConfigFrom(*configPath); err != nil {
		log.Fatalf("loading config: %v", err)
	}

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatal(err)
	}
	if err := migration.Migrate(db); err != nil {
		log.Fatal(err)
	}
	if *migrateOnly {
		return
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("building app: %v", err)
	}

	if err := app.Listen(":" + utils.GetConfig("APP_PORT")); err != nil {
		log.Fatal(err)
	}
}
