package response

import (
	"encoding/json/v2"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/storeapp/store-server/internal/errors"
)

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, map[string]int64{"database_id": 42}, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"database_id":42}`, rec.Body.String())
}

func TestEmpty(t *testing.T) {
	rec := httptest.NewRecorder()
	Empty(rec)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestHandleError_DomainError(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, apperrors.Conflict("there already is a tag with this name"), nil)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(apperrors.CodeConflict), body.Error.Code)
	assert.Equal(t, "there already is a tag with this name", body.Error.Message)
}

func TestHandleError_WrappedCauseIsHidden(t *testing.T) {
	rec := httptest.NewRecorder()
	cause := errors.New("disk I/O error on /var/lib/store.db")
	HandleError(rec, apperrors.Wrap(cause, apperrors.CodeInternal, "could not save item"), nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not save item")
	assert.NotContains(t, rec.Body.String(), "disk I/O")
}

func TestHandleError_UnknownError(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, errors.New("boom"), nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
	assert.NotContains(t, rec.Body.String(), "boom")
}
