package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/albapepper/lottery-data/internal/api/respond"
	"github.com/albapepper/lottery-data/internal/ingest"
)

// Request bodies may carry a base64 file for the (unsupported) import action.
const maxSyncBody = 10 << 20

// SyncResponse is the success body of the sync trigger.
type SyncResponse struct {
	Success  bool `json:"success"`
	Inserted int  `json:"inserted"`
	Total    int  `json:"total"`
}

// PostSync runs a sync trigger.
// @Summary Trigger a sync
// @Description Fetches the latest draws of a game from the FDJ API, upserts them and recomputes the game's number stats. The import action is recognized but not implemented.
// @Tags sync
// @Accept json
// @Produce json
// @Param request body ingest.Request true "Trigger (action: sync | sync_fdj_api | import_file | import_excel)"
// @Success 200 {object} SyncResponse
// @Failure 400 {object} respond.SyncError
// @Failure 409 {object} respond.SyncError
// @Failure 502 {object} respond.SyncError
// @Failure 500 {object} respond.SyncError
// @Router /lottery-sync [post]
func (h *Handler) PostSync(w http.ResponseWriter, r *http.Request) {
	var req ingest.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSyncBody)).Decode(&req); err != nil {
		respond.WriteSyncError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.syncer.Handle(r.Context(), req)
	if err != nil {
		status, msg := syncErrorStatus(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Sync failed", "action", req.Action, "game", req.Game, "error", err)
		}
		respond.WriteSyncError(w, status, msg)
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, SyncResponse{
		Success:  true,
		Inserted: res.Inserted,
		Total:    res.Total,
	})
}

// syncErrorStatus maps a trigger error to its HTTP status and message.
func syncErrorStatus(err error) (int, string) {
	var (
		unsupported *ingest.UnsupportedActionError
		fetchErr    *ingest.FetchError
	)
	switch {
	case errors.As(err, &unsupported):
		return http.StatusBadRequest, unsupported.Error()
	case errors.Is(err, ingest.ErrUnknownAction):
		return http.StatusBadRequest, "Unknown action"
	case errors.Is(err, ingest.ErrUnknownGame):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ingest.ErrSyncInProgress):
		return http.StatusConflict, err.Error()
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway, fetchErr.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
