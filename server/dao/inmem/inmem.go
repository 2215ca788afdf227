// Package inmem provides an in-memory implementation of dao.Store, suitable
// for tests and for running the server without a persistence layer.
package inmem

import (
	"fmt"

	"github.com/dekarrin/synparse/server/dao"
)

type store struct {
	users    *InMemoryUsersRepository
	grammars *InMemoryGrammarsRepository
}

func NewDatastore() dao.Store {
	return &store{
		users:    NewUsersRepository(),
		grammars: NewGrammarsRepository(),
	}
}

func (s *store) Users() dao.UserRepository {
	return s.users
}

func (s *store) Grammars() dao.GrammarRepository {
	return s.grammars
}

func (s *store) Close() error {
	var err error

	if userErr := s.users.Close(); userErr != nil {
		err = userErr
	}
	if grammarErr := s.grammars.Close(); grammarErr != nil {
		if err != nil {
			err = fmt.Errorf("%s\nadditionally, %w", err, grammarErr)
		} else {
			err = grammarErr
		}
	}

	return err
}
