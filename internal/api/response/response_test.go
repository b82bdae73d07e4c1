package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	payload := map[string]string{"hello": "world"}

	WriteJSON(w, http.StatusOK, payload)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &body)
	require.NoError(t, err)
	assert.Equal(t, "world", body["hello"])
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, http.StatusBadRequest, "something went wrong")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &body)
	require.NoError(t, err)
	assert.Equal(t, "something went wrong", body["error"])
}

func TestWritePaginated(t *testing.T) {
	w := httptest.NewRecorder()

	WritePaginated(w, http.StatusOK, []string{"a", "b"}, "cursor-b", true)

	assert.Equal(t, http.StatusOK, w.Code)

	var body PaginatedResponse
	err := json.Unmarshal(w.Body.Bytes(), &body)
	require.NoError(t, err)
	assert.Equal(t, "cursor-b", body.NextCursor)
	assert.True(t, body.HasMore)
}

func TestWritePaginated_LastPage(t *testing.T) {
	w := httptest.NewRecorder()

	WritePaginated(w, http.StatusOK, []string{"a"}, "", false)

	var body map[string]any
	err := json.Unmarshal(w.Body.Bytes(), &body)
	require.NoError(t, err)
	_, hasCursor := body["next_cursor"]
	assert.False(t, hasCursor)
	assert.Equal(t, false, body["has_more"])
}
