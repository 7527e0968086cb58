package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/users-api/internal/api"
	"github.com/phrazzld/users-api/internal/api/shared"
	"github.com/phrazzld/users-api/internal/domain"
	"github.com/phrazzld/users-api/internal/mocks"
	"github.com/phrazzld/users-api/internal/platform/logger"
	"github.com/phrazzld/users-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userBody struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// tickingClock returns a clock that advances one second per call.
func tickingClock() func() time.Time {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	var n atomic.Int64
	return func() time.Time {
		return base.Add(time.Duration(n.Add(1)) * time.Second)
	}
}

func setupRouter(t *testing.T, userStore *mocks.MockUserStore) (http.Handler, *logger.TestLogBuffer) {
	t.Helper()

	buf, log := logger.SetupTestLogger(t)
	return newRouter(service.NewUserService(userStore, log), log), buf
}

func newTestStore() *mocks.MockUserStore {
	userStore := mocks.NewMockUserStore()
	userStore.Now = tickingClock()
	return userStore
}

func send(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func readUser(t *testing.T, w *httptest.ResponseRecorder) userBody {
	t.Helper()

	var env struct {
		Data userBody `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Data
}

func readUsers(t *testing.T, w *httptest.ResponseRecorder) []userBody {
	t.Helper()

	var env struct {
		Data []userBody `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Data
}

func readMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["message"]
}

func createUser(t *testing.T, h http.Handler, name, email string) userBody {
	t.Helper()

	body, err := json.Marshal(map[string]string{"name": name, "email": email})
	require.NoError(t, err)

	w := send(t, h, http.MethodPost, "/api/users", string(body))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return readUser(t, w)
}

func TestRouter_CreateThenGet(t *testing.T) {
	h, _ := setupRouter(t, newTestStore())

	pairs := []struct{ name, email string }{
		{"Alice", "alice@example.com"},
		{"Bob", "bob@example.org"},
		{"Zoë", "zoe+tag@example.net"},
	}

	for _, p := range pairs {
		created := createUser(t, h, p.name, p.email)
		require.NotEmpty(t, created.ID)

		w := send(t, h, http.MethodGet, "/api/users/"+created.ID, "")
		require.Equal(t, http.StatusOK, w.Code)

		got := readUser(t, w)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, p.name, got.Name)
		assert.Equal(t, p.email, got.Email)
	}
}

func TestRouter_CreateRequiresBothFields(t *testing.T) {
	userStore := newTestStore()
	h, _ := setupRouter(t, userStore)

	for _, body := range []string{`{"name":"A"}`, `{"email":"a@example.com"}`, `{}`, ""} {
		w := send(t, h, http.MethodPost, "/api/users", body)

		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, service.MsgRequiredFields, readMessage(t, w), body)
	}
	assert.Zero(t, userStore.TotalCalls(), "gateway must not be called")
}

func TestRouter_DuplicateEmail(t *testing.T) {
	h, _ := setupRouter(t, newTestStore())

	createUser(t, h, "Alice", "alice@example.com")

	w := send(t, h, http.MethodPost, "/api/users", `{"name":"Other","email":"ALICE@example.com"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, service.MsgEmailExists, readMessage(t, w))
}

func TestRouter_GetErrors(t *testing.T) {
	h, _ := setupRouter(t, newTestStore())

	w := send(t, h, http.MethodGet, "/api/users/not-an-id", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgInvalidUserID, readMessage(t, w))

	w = send(t, h, http.MethodGet, "/api/users/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, service.MsgUserNotFound, readMessage(t, w))
}

func TestRouter_UpdateNameOnly(t *testing.T) {
	h, _ := setupRouter(t, newTestStore())

	created := createUser(t, h, "Alice", "alice@example.com")

	w := send(t, h, http.MethodPut, "/api/users/"+created.ID, `{"name":"B"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	updated := readUser(t, w)
	assert.Equal(t, "B", updated.Name)
	assert.Equal(t, created.Email, updated.Email)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestRouter_UpdateNotFound(t *testing.T) {
	h, _ := setupRouter(t, newTestStore())

	w := send(t, h, http.MethodPut, "/api/users/"+uuid.NewString(), `{"name":"B"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, service.MsgUserNotFound, readMessage(t, w))
}

func TestRouter_Delete(t *testing.T) {
	h, _ := setupRouter(t, newTestStore())

	created := createUser(t, h, "Alice", "alice@example.com")

	w := send(t, h, http.MethodDelete, "/api/users/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = send(t, h, http.MethodGet, "/api/users/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = send(t, h, http.MethodDelete, "/api/users/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, service.MsgUserNotFound, readMessage(t, w))
}

func TestRouter_ListNewestFirst(t *testing.T) {
	h, _ := setupRouter(t, newTestStore())

	w := send(t, h, http.MethodGet, "/api/users", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())

	createUser(t, h, "First", "e1@example.com")
	createUser(t, h, "Second", "e2@example.com")

	w = send(t, h, http.MethodGet, "/api/users", "")
	require.Equal(t, http.StatusOK, w.Code)

	users := readUsers(t, w)
	require.Len(t, users, 2)
	assert.Equal(t, "e2@example.com", users[0].Email)
	assert.Equal(t, "e1@example.com", users[1].Email)
}

func TestRouter_HealthIgnoresGateway(t *testing.T) {
	userStore := newTestStore()
	userStore.ListFn = func(context.Context) ([]*domain.User, error) {
		return nil, errors.New("connection refused")
	}
	h, _ := setupRouter(t, userStore)

	w := send(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body api.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)

	_, err := time.Parse(api.HealthTimestampFormat, body.Timestamp)
	assert.NoError(t, err)
	assert.True(t, strings.HasSuffix(body.Timestamp, "Z"))
	assert.Zero(t, userStore.TotalCalls())
}

func TestRouter_Unmatched(t *testing.T) {
	h, _ := setupRouter(t, newTestStore())

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/unknown"},
		{http.MethodGet, "/"},
		{http.MethodPatch, "/api/users/" + uuid.NewString()},
		{http.MethodDelete, "/api/users"},
		{http.MethodPost, "/health"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := send(t, h, tt.method, tt.path, "")

			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, api.NotFoundMessage, readMessage(t, w))
		})
	}
}

func TestRouter_InternalErrorsAreGeneric(t *testing.T) {
	userStore := newTestStore()
	userStore.ListFn = func(context.Context) ([]*domain.User, error) {
		return nil, errors.New("dial tcp 10.0.0.5:27017: connection refused")
	}
	h, buf := setupRouter(t, userStore)

	w := send(t, h, http.MethodGet, "/api/users", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, shared.GenericErrorMessage, readMessage(t, w))
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
	assert.NotEmpty(t, w.Header().Get(shared.TraceIDHeader))
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}

func TestRouter_PanicYieldsSingleResponse(t *testing.T) {
	userStore := newTestStore()
	userStore.GetByIDFn = func(context.Context, string) (*domain.User, error) {
		panic("boom")
	}
	h, buf := setupRouter(t, userStore)

	w := send(t, h, http.MethodGet, "/api/users/"+uuid.NewString(), "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, w.Body.String())
	assert.Contains(t, buf.String(), "recovered from panic")
}

func TestRouter_MalformedJSON(t *testing.T) {
	h, _ := setupRouter(t, newTestStore())

	w := send(t, h, http.MethodPost, "/api/users", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, api.MsgInvalidJSON, readMessage(t, w))
}

func TestRouter_TraceHeader(t *testing.T) {
	h, _ := setupRouter(t, newTestStore())

	first := send(t, h, http.MethodGet, "/health", "")
	second := send(t, h, http.MethodGet, "/health", "")

	assert.NotEmpty(t, first.Header().Get(shared.TraceIDHeader))
	assert.NotEqual(t, first.Header().Get(shared.TraceIDHeader), second.Header().Get(shared.TraceIDHeader))
}
