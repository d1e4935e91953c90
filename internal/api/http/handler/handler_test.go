package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/photogallery-server/internal/api/http/response"
)

type testEnvelope struct {
	Success bool             `json:"success"`
	Code    int              `json:"code"`
	Message response.Message `json:"message"`
	Data    json.RawMessage  `json:"data"`
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, testEnvelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return do(t, app, req)
}

func doForm(t *testing.T, app *fiber.App, path string, form url.Values) (int, testEnvelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	return do(t, app, req)
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, testEnvelope) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env testEnvelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func decodeData(t *testing.T, env testEnvelope, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}
