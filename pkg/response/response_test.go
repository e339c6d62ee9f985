package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuccess_EmptySliceKeepsDataField(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, 0, []string{}, "ok", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.Contains(t, body, "data")
	assert.JSONEq(t, `[]`, string(body["data"]))
	assert.NotContains(t, body, "meta")
}

func TestError_DefaultsToBadRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")

	resp := Error[any](c, 0, "bad input", map[string]string{"email": "required"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)
	body := decode(t, w)
	assert.JSONEq(t, `"req-1"`, string(body["request_id"]))
	assert.JSONEq(t, `{"email":"required"}`, string(body["error"]))
}
