package middle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dekarrin/synparse/server/dao"
	"github.com/dekarrin/synparse/server/dao/inmem"
	"github.com/dekarrin/synparse/server/token"
	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func Test_RequireAuth_rejectsMissingToken(t *testing.T) {
	assert := assert.New(t)

	users := inmem.NewUsersRepository()
	h := RequireAuth(users, []byte("secret"), 0, dao.User{})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(http.StatusUnauthorized, rec.Code)
}

func Test_RequireAuth_acceptsValidToken(t *testing.T) {
	assert := assert.New(t)

	users := inmem.NewUsersRepository()
	u, err := users.Create(context.Background(), dao.User{Username: "alice", Password: "hash"})
	if !assert.NoError(err) {
		return
	}

	secret := []byte("secret")
	tok, err := token.Generate(secret, u)
	if !assert.NoError(err) {
		return
	}

	var gotUser dao.User
	var gotLoggedIn bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = r.Context().Value(AuthUser).(dao.User)
		gotLoggedIn, _ = r.Context().Value(AuthLoggedIn).(bool)
		w.WriteHeader(http.StatusOK)
	})

	h := RequireAuth(users, secret, 0, dao.User{})(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(http.StatusOK, rec.Code)
	assert.True(gotLoggedIn)
	assert.Equal(u.ID, gotUser.ID)
}

func Test_OptionalAuth_allowsMissingTokenWithDefaultUser(t *testing.T) {
	assert := assert.New(t)

	users := inmem.NewUsersRepository()
	defaultUser := dao.User{Username: "anonymous"}

	var gotUser dao.User
	var gotLoggedIn bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = r.Context().Value(AuthUser).(dao.User)
		gotLoggedIn, _ = r.Context().Value(AuthLoggedIn).(bool)
		w.WriteHeader(http.StatusOK)
	})

	h := OptionalAuth(users, []byte("secret"), 0, defaultUser)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(http.StatusOK, rec.Code)
	assert.False(gotLoggedIn)
	assert.Equal(defaultUser.Username, gotUser.Username)
}

func Test_RequireAdmin(t *testing.T) {
	testCases := []struct {
		name       string
		user       dao.User
		expectCode int
	}{
		{
			name:       "admin allowed",
			user:       dao.User{Username: "boss", Role: dao.Admin},
			expectCode: http.StatusOK,
		},
		{
			name:       "normal user forbidden",
			user:       dao.User{Username: "worker", Role: dao.Normal},
			expectCode: http.StatusForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			h := RequireAdmin()(okHandler())

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			ctx := context.WithValue(req.Context(), AuthUser, tc.user)
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(tc.expectCode, rec.Code)
		})
	}
}

func Test_DontPanic_recoversAndWrites500(t *testing.T) {
	assert := assert.New(t)

	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	h := DontPanic()(panicky)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	assert.NotPanics(func() {
		h.ServeHTTP(rec, req)
	})
	assert.Equal(http.StatusInternalServerError, rec.Code)
}
