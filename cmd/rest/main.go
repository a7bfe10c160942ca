package main

import (
	"context"
	"log"

	"stickynotes-be/internal/bootstrap"
	"stickynotes-be/internal/config"
	"stickynotes-be/internal/model"
	"stickynotes-be/internal/server"
	"stickynotes-be/internal/tracer"
	"stickynotes-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database. A missing connection string is not fatal:
	// the app still serves the frontend and data access returns 503.
	var gormDB *gorm.DB
	if cfg.Database.Configured() {
		var err error
		gormDB, err = database.NewGormDB(cfg.Database.DSN(), cfg.App.Environment != "production")
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		if err := gormDB.AutoMigrate(&model.Note{}); err != nil {
			log.Panicf("Unable to migrate notes table: %v", err)
		}
	} else {
		log.Println("[WARN] DB_HOST/DB_USERNAME/DB_DATABASE not set, persistence is disabled")
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	log.Fatal(srv.Run())
}
