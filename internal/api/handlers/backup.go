package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/inventorypro/inventory-platform/internal/errors"
	service "github.com/inventorypro/inventory-platform/internal/services"
	"github.com/inventorypro/inventory-platform/internal/utils/response"
)

// maxImportSize caps uploaded snapshot documents at 32 MiB.
const maxImportSize = 32 << 20

type BackupHandler struct {
	backupService service.BackupService
}

func NewBackupHandler(backupService service.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

// Export streams the snapshot document as a JSON download.
func (h *BackupHandler) Export() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		data, err := h.backupService.ExportSnapshot(r.Context())
		if err != nil {
			slog.Error("Snapshot export failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("Snapshot exported", slog.Int("bytes", len(data)))

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="inventory_backup.json"`)
		w.WriteHeader(http.StatusOK)

		if _, err := w.Write(data); err != nil {
			slog.Error("Failed to write snapshot response", slog.String("error", err.Error()))
		}
	}
}

// Import replaces the entire inventory with the uploaded snapshot document.
func (h *BackupHandler) Import() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		data, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
		if err != nil {
			response.Error(w, errors.BadRequestError("Failed to read request body"))
			return
		}

		if len(data) == 0 {
			response.Error(w, errors.BadRequestError("Request body is empty"))
			return
		}

		if err := h.backupService.ImportSnapshot(r.Context(), data); err != nil {
			slog.Error("Snapshot import failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("Snapshot imported", slog.Int("bytes", len(data)))
		response.Success(w, http.StatusOK, map[string]string{"status": "imported"})
	}
}

func (h *BackupHandler) CloudBackup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		if err := h.backupService.CloudBackup(r.Context()); err != nil {
			slog.Error("Cloud backup failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("Cloud backup completed")
		response.Success(w, http.StatusOK, map[string]string{"status": "backed_up"})
	}
}

func (h *BackupHandler) CloudRestore() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		if err := h.backupService.CloudRestore(r.Context()); err != nil {
			slog.Error("Cloud restore failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("Cloud restore completed")
		response.Success(w, http.StatusOK, map[string]string{"status": "restored"})
	}
}
