package service

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/inventorypro/inventory-platform/internal/cache"
	appErrors "github.com/inventorypro/inventory-platform/internal/errors"
	"github.com/inventorypro/inventory-platform/internal/metrics"
	repository "github.com/inventorypro/inventory-platform/internal/repositories"
	"github.com/inventorypro/inventory-platform/internal/snapshot"
	"github.com/inventorypro/inventory-platform/pkg/drive"
	"golang.org/x/sync/semaphore"
)

// BackupService drives the four backup workflows. Each run resolves to
// exactly one success or one typed failure; a failed import or restore leaves
// local state untouched.
type BackupService interface {
	ExportSnapshot(ctx context.Context) ([]byte, error)
	ExportToFile(ctx context.Context, path string) error
	ImportSnapshot(ctx context.Context, data []byte) error
	ImportFromFile(ctx context.Context, path string) error
	CloudBackup(ctx context.Context) error
	CloudRestore(ctx context.Context) error
}

type backupService struct {
	db       *sql.DB
	products repository.ProductRepository
	ledger   repository.TransactionRepository
	cache    cache.Cache
	remote   drive.Client
	gate     drive.Gate

	folderName string
	fileName   string

	// Single slot: at most one backup or restore runs at a time so two full
	// replaces can never interleave.
	slot *semaphore.Weighted
}

func NewBackupService(db *sql.DB, products repository.ProductRepository, ledger repository.TransactionRepository,
	summaryCache cache.Cache, remote drive.Client, gate drive.Gate, folderName, fileName string) BackupService {
	return &backupService{
		db:         db,
		products:   products,
		ledger:     ledger,
		cache:      summaryCache,
		remote:     remote,
		gate:       gate,
		folderName: folderName,
		fileName:   fileName,
		slot:       semaphore.NewWeighted(1),
	}
}

func (s *backupService) ExportSnapshot(ctx context.Context) (data []byte, err error) {
	defer func() { metrics.ObserveBackupRun("export", err) }()

	if err = s.acquireSlot(); err != nil {
		return nil, err
	}
	defer s.slot.Release(1)

	return s.exportJSON(ctx)
}

func (s *backupService) ExportToFile(ctx context.Context, path string) (err error) {
	defer func() { metrics.ObserveBackupRun("export_file", err) }()

	if err = s.acquireSlot(); err != nil {
		return err
	}
	defer s.slot.Release(1)

	data, err := s.exportJSON(ctx)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return appErrors.IOFailureError("Failed to write backup file").WithError(err)
	}

	return nil
}

func (s *backupService) ImportSnapshot(ctx context.Context, data []byte) (err error) {
	defer func() { metrics.ObserveBackupRun("import", err) }()

	if err = s.acquireSlot(); err != nil {
		return err
	}
	defer s.slot.Release(1)

	return s.importJSON(ctx, data)
}

func (s *backupService) ImportFromFile(ctx context.Context, path string) (err error) {
	defer func() { metrics.ObserveBackupRun("import_file", err) }()

	if err = s.acquireSlot(); err != nil {
		return err
	}
	defer s.slot.Release(1)

	data, err := os.ReadFile(path)
	if err != nil {
		return appErrors.IOFailureError("Failed to read backup file").WithError(err)
	}

	return s.importJSON(ctx, data)
}

// CloudBackup uploads the current state, replacing the remote file in place
// when one already exists so repeated backups never create duplicates.
func (s *backupService) CloudBackup(ctx context.Context) (err error) {
	defer func() { metrics.ObserveBackupRun("cloud_backup", err) }()

	if err = s.acquireSlot(); err != nil {
		return err
	}
	defer s.slot.Release(1)

	if !s.gate.Authenticated(ctx) {
		return appErrors.AuthRequiredError()
	}

	// The snapshot is captured once, before any remote call, so one backup
	// run sees one consistent state.
	data, err := s.exportJSON(ctx)
	if err != nil {
		return err
	}

	folderID, err := s.remote.FindOrCreateFolder(ctx, s.folderName)
	if err != nil {
		return appErrors.TransferFailureError("Failed to locate backup folder").WithError(err)
	}

	fileID, err := s.remote.FindFileInFolder(ctx, s.fileName, folderID)
	if err != nil {
		return appErrors.TransferFailureError("Failed to locate backup file").WithError(err)
	}

	if fileID != "" {
		if err := s.remote.ReplaceContent(ctx, fileID, data); err != nil {
			return appErrors.TransferFailureError("Failed to update backup file").WithError(err)
		}
	} else {
		if _, err := s.remote.UploadContent(ctx, s.fileName, data, folderID); err != nil {
			return appErrors.TransferFailureError("Failed to upload backup file").WithError(err)
		}
	}

	slog.Info("Cloud backup uploaded", slog.String("folder", s.folderName), slog.String("file", s.fileName))

	return nil
}

// CloudRestore distinguishes "no backup exists yet" (NotFound) from a broken
// transport (TransferFailure); only a decoded document ever touches local
// state.
func (s *backupService) CloudRestore(ctx context.Context) (err error) {
	defer func() { metrics.ObserveBackupRun("cloud_restore", err) }()

	if err = s.acquireSlot(); err != nil {
		return err
	}
	defer s.slot.Release(1)

	if !s.gate.Authenticated(ctx) {
		return appErrors.AuthRequiredError()
	}

	folderID, err := s.remote.FindFolder(ctx, s.folderName)
	if err != nil {
		return appErrors.TransferFailureError("Failed to look up backup folder").WithError(err)
	}

	if folderID == "" {
		return appErrors.NotFoundError("No backup found in cloud storage")
	}

	fileID, err := s.remote.FindFileInFolder(ctx, s.fileName, folderID)
	if err != nil {
		return appErrors.TransferFailureError("Failed to look up backup file").WithError(err)
	}

	if fileID == "" {
		return appErrors.NotFoundError("No backup file found in cloud storage")
	}

	data, err := s.remote.DownloadContent(ctx, fileID)
	if err != nil {
		return appErrors.TransferFailureError("Failed to download backup file").WithError(err)
	}

	if err := s.importJSON(ctx, data); err != nil {
		return err
	}

	slog.Info("Cloud restore applied", slog.String("folder", s.folderName), slog.String("file", s.fileName))

	return nil
}

func (s *backupService) exportJSON(ctx context.Context) ([]byte, error) {

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to read products for backup").WithError(err)
	}

	movements, err := s.ledger.List(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to read transactions for backup").WithError(err)
	}

	return snapshot.Marshal(snapshot.Export(products, movements))
}

// importJSON validates first, then replaces both tables inside a single
// transaction: any failure rolls the whole replace back.
func (s *backupService) importJSON(ctx context.Context, data []byte) error {

	snap, err := snapshot.Decode(data)
	if err != nil {
		return err
	}

	err = repository.WithinTx(ctx, s.db, func(tx *sql.Tx) error {

		if err := s.ledger.DeleteAll(ctx, tx); err != nil {
			return err
		}

		if err := s.products.DeleteAll(ctx, tx); err != nil {
			return err
		}

		if err := s.products.BulkInsert(ctx, tx, snap.Products); err != nil {
			return err
		}

		return s.ledger.BulkInsert(ctx, tx, snap.Transactions)
	})
	if err != nil {
		return appErrors.DatabaseError("Failed to replace local state").WithError(err)
	}

	s.invalidateSummary(ctx)

	return nil
}

func (s *backupService) invalidateSummary(ctx context.Context) {

	if s.cache == nil {
		return
	}

	if err := s.cache.Delete(ctx, cache.SummaryKey); err != nil {
		slog.Warn("Summary cache invalidation failed", slog.String("error", err.Error()))
	}
}

func (s *backupService) acquireSlot() error {

	if !s.slot.TryAcquire(1) {
		return appErrors.BackupInProgressError()
	}

	return nil
}
