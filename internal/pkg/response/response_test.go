package response

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	apperrors "github.com/xyz-asif/bloghunt/pkg/errors"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuccessAndErrorResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, map[string]string{"foo": "bar"}, "ok")
	require.Equal(t, 200, w.Code)
	body := decode(t, w)
	require.Equal(t, true, body["success"])
	require.Equal(t, float64(200), body["statusCode"]) // json numbers decode to float64
	require.Equal(t, "ok", body["message"])
	require.Contains(t, body, "data")

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	Error(c, 400, "bad request", "BAD_REQ")
	require.Equal(t, 400, w.Code)
	bodyErr := decode(t, w)
	require.Equal(t, false, bodyErr["success"])
	require.Equal(t, float64(400), bodyErr["statusCode"])
	require.Equal(t, "bad request", bodyErr["message"])
	require.Equal(t, "BAD_REQ", bodyErr["code"])
}

func TestPaginatedResponse(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	items := []map[string]any{{"id": 1}, {"id": 2}}
	Paginated(c, items, 2, 10, 1)

	require.Equal(t, 200, w.Code)
	body := decode(t, w)
	require.Equal(t, true, body["success"])
	require.Equal(t, float64(200), body["statusCode"])
	data := body["data"].(map[string]any)
	require.Contains(t, data, "items")
	require.Equal(t, float64(2), data["total"].(float64))
	require.Equal(t, float64(10), data["limit"].(float64))
	require.Equal(t, float64(1), data["page"].(float64))
	require.Contains(t, body, "pagination")
}

func TestFromError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
		msg    string
	}{
		{apperrors.Forbidden("Unauthorized"), 403, "FORBIDDEN", "Unauthorized"},
		{apperrors.NotFound("Comment not found"), 404, "NOT_FOUND", "Comment not found"},
		{apperrors.Conflict("User already exists"), 400, "CONFLICT", "User already exists"},
		{apperrors.ErrInvalidCredentials, 400, "INVALID_CREDENTIALS", "Invalid credentials"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		FromError(c, tc.err)

		require.Equal(t, tc.status, w.Code)
		body := decode(t, w)
		require.Equal(t, false, body["success"])
		require.Equal(t, tc.code, body["code"])
		require.Equal(t, tc.msg, body["message"])
		require.NotContains(t, body, "error")
	}
}

func TestFromErrorHidesInternalsInProduction(t *testing.T) {
	SetProduction(true)
	defer SetProduction(false)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	FromError(c, errors.New("connection reset by peer"))

	require.Equal(t, 500, w.Code)
	body := decode(t, w)
	require.Equal(t, "internal server error", body["message"])
	require.NotContains(t, body, "error")
}
