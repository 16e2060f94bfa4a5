package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	t.Run("writes JSON with correct content type", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		data := map[string]string{"foo": "bar"}

		WriteJSON(rec, http.StatusOK, data)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var result map[string]string
		err := json.Unmarshal(rec.Body.Bytes(), &result)
		require.NoError(t, err)
		assert.Equal(t, "bar", result["foo"])
	})

	t.Run("nil data is null", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteJSON(rec, http.StatusOK, nil)

		assert.Equal(t, "null", rec.Body.String())
		assert.Equal(t, "4", rec.Header().Get("Content-Length"))
	})

	t.Run("sets custom status codes", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteJSON(rec, http.StatusCreated, map[string]string{"id": "123"})

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("unencodable data becomes 500", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteJSON(rec, http.StatusOK, map[string]any{"f": func() {}})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "encoding response")
	})
}

func TestWriteRaw(t *testing.T) {
	t.Parallel()

	t.Run("explicit content type", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteRaw(rec, http.StatusOK, "text/csv", []byte("a,b\n1,2\n"))

		assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
		assert.Equal(t, "a,b\n1,2\n", rec.Body.String())
	})

	t.Run("sniffed content type", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteRaw(rec, http.StatusAccepted, "", []byte("<html><body>hi</body></html>"))

		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
	})
}

func TestWriteError(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()

	WriteError(rec, http.StatusInternalServerError, "boom", "main.go:1")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrorBody{Message: "boom", Stack: "main.go:1"}, body)
}

func TestContentTypeForFile(t *testing.T) {
	t.Parallel()

	assert.True(t, strings.HasPrefix(ContentTypeForFile("users.json", []byte("{}")), "application/json"))
	assert.True(t, strings.HasPrefix(ContentTypeForFile("noext", []byte("plain words")), "text/plain"))
}
