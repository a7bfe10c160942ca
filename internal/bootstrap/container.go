package bootstrap

import (
	"log"

	"stickynotes-be/internal/config"
	"stickynotes-be/internal/controller"
	"stickynotes-be/internal/pkg/logger"
	"stickynotes-be/internal/repository/unitofwork"
	"stickynotes-be/internal/service"
	"stickynotes-be/pkg/blob"

	"gorm.io/gorm"
)

type Container struct {
	NoteController controller.INoteController
	Logger         logger.ILogger
}

// NewContainer wires the dependency graph. db may be nil (no connection
// string); blob storage is only constructed when a token is present, so a
// missing credential surfaces per request, not at startup.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	var storage blob.Storage
	if cfg.Blob.Token != "" {
		client, err := blob.NewClient(cfg.Blob.Token, sysLogger)
		if err != nil {
			log.Printf("[WARN] Failed to initialize blob client: %v", err)
		} else {
			storage = client
		}
	} else {
		log.Println("[WARN] BLOB_READ_WRITE_TOKEN not set, image upload/delete will fail when attempted")
	}

	noteService := service.NewNoteService(uowFactory, storage, sysLogger)
	noteController := controller.NewNoteController(noteService)

	return &Container{
		NoteController: noteController,
		Logger:         sysLogger,
	}
}
