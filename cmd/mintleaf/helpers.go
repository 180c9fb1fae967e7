package main

import (
	"fmt"

	"github.com/mintleaf-fin/mintleaf/internal/common"
	"github.com/mintleaf-fin/mintleaf/internal/config"
	"github.com/mintleaf-fin/mintleaf/internal/dedupe"
	"github.com/mintleaf-fin/mintleaf/internal/engine"
	"github.com/mintleaf-fin/mintleaf/internal/service"
	"github.com/mintleaf-fin/mintleaf/internal/storage"
	"github.com/spf13/viper"
)

// app bundles the wired components behind one CLI invocation.
type app struct {
	storage    *storage.SQLiteStorage
	modelStore service.ModelStore
	engine     *engine.Engine
	detector   *dedupe.Detector
	ownerID    int64
}

// openApp opens storage and wires the engine and detector for the
// configured user. Callers must Close.
func openApp() (*app, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}

	store, err := storage.NewSQLiteStorage(config.ExpandPath(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ownerID := viper.GetInt64("user.id")
	if ownerID <= 0 {
		_ = store.Close()
		return nil, common.NewUserError(
			fmt.Sprintf("invalid user id %d", ownerID), common.ErrInvalidConfig)
	}

	// Snapshots live in the database by default; models.dir switches to
	// one gob file per user instead. Either way a session cache fronts it.
	var backing service.ModelStore = store
	if dir := viper.GetString("models.dir"); dir != "" {
		fileStore, err := storage.NewFileModelStore(config.ExpandPath(dir))
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to open model directory: %w", err)
		}
		backing = fileStore
	}
	modelStore := storage.NewCachedModelStore(backing)

	return &app{
		storage:    store,
		modelStore: modelStore,
		engine:     engine.New(ownerID, store, modelStore),
		detector:   dedupe.New(store),
		ownerID:    ownerID,
	}, nil
}

func (a *app) Close() error {
	return a.storage.Close()
}
