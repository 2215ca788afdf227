package inmem

import (
	"context"
	"fmt"
	"time"

	"github.com/dekarrin/synparse/internal/util"
	"github.com/dekarrin/synparse/server/dao"
	"github.com/google/uuid"
)

func NewGrammarsRepository() *InMemoryGrammarsRepository {
	return &InMemoryGrammarsRepository{
		grammars:    make(map[uuid.UUID]dao.Grammar),
		byNameIndex: make(map[string]uuid.UUID),
	}
}

type InMemoryGrammarsRepository struct {
	grammars    map[uuid.UUID]dao.Grammar
	byNameIndex map[string]uuid.UUID
}

func (imgr *InMemoryGrammarsRepository) Close() error {
	return nil
}

func (imgr *InMemoryGrammarsRepository) Create(ctx context.Context, g dao.Grammar) (dao.Grammar, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("could not generate ID: %w", err)
	}

	if _, ok := imgr.byNameIndex[g.Name]; ok {
		return dao.Grammar{}, dao.ErrConstraintViolation
	}

	now := time.Now()
	g.ID = newUUID
	g.Created = now
	g.Modified = now

	imgr.grammars[g.ID] = g
	imgr.byNameIndex[g.Name] = g.ID

	return g, nil
}

func (imgr *InMemoryGrammarsRepository) GetAll(ctx context.Context) ([]dao.Grammar, error) {
	all := make([]dao.Grammar, 0, len(imgr.grammars))
	for k := range imgr.grammars {
		all = append(all, imgr.grammars[k])
	}

	all = util.SortBy(all, func(l, r dao.Grammar) bool {
		return l.Name < r.Name
	})

	return all, nil
}

func (imgr *InMemoryGrammarsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	g, ok := imgr.grammars[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}

	return g, nil
}

func (imgr *InMemoryGrammarsRepository) GetByName(ctx context.Context, name string) (dao.Grammar, error) {
	id, ok := imgr.byNameIndex[name]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}

	return imgr.grammars[id], nil
}

func (imgr *InMemoryGrammarsRepository) Update(ctx context.Context, id uuid.UUID, g dao.Grammar) (dao.Grammar, error) {
	existing, ok := imgr.grammars[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}

	if g.Name != existing.Name {
		if _, ok := imgr.byNameIndex[g.Name]; ok {
			return dao.Grammar{}, dao.ErrConstraintViolation
		}
	}

	g.Modified = time.Now()
	imgr.grammars[g.ID] = g
	imgr.byNameIndex[g.Name] = g.ID
	if g.Name != existing.Name {
		delete(imgr.byNameIndex, existing.Name)
	}

	return g, nil
}

func (imgr *InMemoryGrammarsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	g, ok := imgr.grammars[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}

	delete(imgr.byNameIndex, g.Name)
	delete(imgr.grammars, g.ID)

	return g, nil
}
