package server

import (
	"context"
	"testing"

	"github.com/dekarrin/synparse/server/dao"
	"github.com/stretchr/testify/assert"
)

func Test_New_requiresValidConfig(t *testing.T) {
	assert := assert.New(t)

	_, err := New(Config{TokenSecret: []byte("too-short")})
	assert.Error(err)
}

func Test_New_and_CreateUser(t *testing.T) {
	assert := assert.New(t)

	srv, err := New(Config{DB: Database{Type: DatabaseInMemory}})
	if !assert.NoError(err) {
		return
	}
	defer srv.Close()

	u, err := srv.CreateUser(context.Background(), "admin", "password", dao.Admin)
	if assert.NoError(err) {
		assert.Equal("admin", u.Username)
		assert.Equal(dao.Admin, u.Role)
		assert.NotEqual("password", u.Password)
	}

	_, err = srv.CreateUser(context.Background(), "admin", "password", dao.Admin)
	assert.ErrorIs(err, dao.ErrConstraintViolation)
}
