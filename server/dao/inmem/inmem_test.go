package inmem

import (
	"context"
	"testing"

	"github.com/dekarrin/synparse/server/dao"
	"github.com/stretchr/testify/assert"
)

func Test_InMemoryGrammarsRepository_CreateGetUpdateDelete(t *testing.T) {
	assert := assert.New(t)

	repo := NewGrammarsRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, dao.Grammar{Name: "arith", Source: "{}"})
	if !assert.NoError(err) {
		return
	}
	assert.NotEqual(created.ID.String(), "")
	assert.False(created.Created.IsZero())

	_, err = repo.Create(ctx, dao.Grammar{Name: "arith", Source: "{}"})
	assert.ErrorIs(err, dao.ErrConstraintViolation)

	got, err := repo.GetByID(ctx, created.ID)
	if assert.NoError(err) {
		assert.Equal("arith", got.Name)
	}

	byName, err := repo.GetByName(ctx, "arith")
	if assert.NoError(err) {
		assert.Equal(created.ID, byName.ID)
	}

	_, err = repo.GetByName(ctx, "nope")
	assert.ErrorIs(err, dao.ErrNotFound)

	created.Name = "arith2"
	created.Description = "updated"
	updated, err := repo.Update(ctx, created.ID, created)
	if assert.NoError(err) {
		assert.Equal("arith2", updated.Name)
		assert.True(updated.Modified.After(got.Modified) || updated.Modified.Equal(got.Modified))
	}

	_, err = repo.GetByName(ctx, "arith")
	assert.ErrorIs(err, dao.ErrNotFound)

	all, err := repo.GetAll(ctx)
	if assert.NoError(err) {
		assert.Len(all, 1)
	}

	deleted, err := repo.Delete(ctx, created.ID)
	if assert.NoError(err) {
		assert.Equal("arith2", deleted.Name)
	}

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(err, dao.ErrNotFound)
}

func Test_InMemoryUsersRepository_CreateGetUpdateDelete(t *testing.T) {
	assert := assert.New(t)

	repo := NewUsersRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, dao.User{Username: "alice", Password: "hash", Role: dao.Normal})
	if !assert.NoError(err) {
		return
	}
	assert.False(created.LastLogoutTime.IsZero())

	_, err = repo.Create(ctx, dao.User{Username: "alice", Password: "hash2"})
	assert.ErrorIs(err, dao.ErrConstraintViolation)

	byUsername, err := repo.GetByUsername(ctx, "alice")
	if assert.NoError(err) {
		assert.Equal(created.ID, byUsername.ID)
	}

	created.Role = dao.Admin
	updated, err := repo.Update(ctx, created.ID, created)
	if assert.NoError(err) {
		assert.Equal(dao.Admin, updated.Role)
	}

	all, err := repo.GetAll(ctx)
	if assert.NoError(err) {
		assert.Len(all, 1)
	}

	deleted, err := repo.Delete(ctx, created.ID)
	if assert.NoError(err) {
		assert.Equal("alice", deleted.Username)
	}

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(err, dao.ErrNotFound)
}

func Test_NewDatastore(t *testing.T) {
	assert := assert.New(t)

	store := NewDatastore()
	defer store.Close()

	assert.NotNil(store.Users())
	assert.NotNil(store.Grammars())
}
