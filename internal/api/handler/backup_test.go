package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newBackupHandler() *Backup {
	return NewBackup(nil)
}

// --- Create ---

func TestBackupCreate_EmptySiteID(t *testing.T) {
	h := newBackupHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/sites//backups", map[string]any{
		"type": "full",
	})
	r = withChiURLParam(r, "siteID", "")

	h.Create(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Contains(t, body["error"], "missing required ID")
}

func TestBackupCreate_InvalidType(t *testing.T) {
	h := newBackupHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/sites/"+validID+"/backups", map[string]any{
		"type": "incremental",
	})
	r = withChiURLParam(r, "siteID", validID)

	h.Create(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Contains(t, body["error"], "validation error")
}

func TestBackupCreate_InvalidJSON(t *testing.T) {
	h := newBackupHandler()
	rec := httptest.NewRecorder()
	r := newRequestRaw(http.MethodPost, "/sites/"+validID+"/backups", "{bad json")
	r = withChiURLParam(r, "siteID", validID)

	h.Create(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Contains(t, body["error"], "invalid JSON")
}

// --- Get ---

func TestBackupGet_EmptyID(t *testing.T) {
	h := newBackupHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodGet, "/backups/", nil)
	r = withChiURLParam(r, "id", "")

	h.Get(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- UpsertSchedule ---

func TestBackupUpsertSchedule_EmptySiteID(t *testing.T) {
	h := newBackupHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPut, "/sites//backup-schedules", map[string]any{
		"frequency":   "daily",
		"backup_type": "full",
	})
	r = withChiURLParam(r, "siteID", "")

	h.UpsertSchedule(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBackupUpsertSchedule_InvalidFrequency(t *testing.T) {
	h := newBackupHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPut, "/sites/"+validID+"/backup-schedules", map[string]any{
		"frequency":   "hourly",
		"backup_type": "full",
	})
	r = withChiURLParam(r, "siteID", validID)

	h.UpsertSchedule(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Contains(t, body["error"], "validation error")
}

func TestBackupUpsertSchedule_WeekdayOutOfRange(t *testing.T) {
	h := newBackupHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPut, "/sites/"+validID+"/backup-schedules", map[string]any{
		"frequency":   "weekly",
		"backup_type": "full",
		"weekday":     9,
	})
	r = withChiURLParam(r, "siteID", validID)

	h.UpsertSchedule(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
