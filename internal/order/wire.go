package order

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"orderdesk/internal/config"
	"orderdesk/internal/infrastructure/badger"
	"orderdesk/internal/infrastructure/mysql"
	"orderdesk/internal/order/controller"
	"orderdesk/internal/order/repository"
	"orderdesk/internal/order/service"
)

func NewModule(repo service.DocumentRepository, recorder service.MetricsRecorder, logger *zap.Logger) (*controller.OrderController, error) {
	svc := service.NewOrderService(repo, recorder, logger)
	validator, err := controller.NewBodyValidator()
	if err != nil {
		return nil, err
	}
	return controller.NewOrderController(svc, validator, logger), nil
}

// OpenStorage opens the document backend named by cfg.Backend. The returned
// close func releases whatever connection the backend holds.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.DocumentRepository, func() error, error) {
	switch cfg.Storage.Backend {
	case "", config.StorageBackendFile:
		logger.Info("using file storage", zap.String("path", cfg.Storage.FilePath))
		return repository.NewFileRepository(cfg.Storage.FilePath), func() error { return nil }, nil

	case config.StorageBackendMySQL:
		db, err := mysql.NewConnection(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewMySQLDocumentRepository(db, cfg.Storage.DocumentName)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("using mysql storage", zap.String("database", cfg.Database.Name))
		return repo, db.Close, nil

	case config.StorageBackendBadger:
		db, err := badger.Open(cfg.Storage.BadgerDir)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using badger storage", zap.String("dir", cfg.Storage.BadgerDir))
		return repository.NewBadgerDocumentRepository(db, cfg.Storage.DocumentName), db.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}
