package memory

import (
	"context"
	"sync"

	"github.com/drafthoops/nba-draft-tracker/internal/domain/roster"
)

type RosterRepository struct {
	mu         sync.RWMutex
	assignment roster.Assignment
}

func NewRosterRepository(assignment roster.Assignment) *RosterRepository {
	return &RosterRepository{assignment: assignment.Clone()}
}

func (r *RosterRepository) Get(_ context.Context) (roster.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.assignment.Clone(), nil
}
