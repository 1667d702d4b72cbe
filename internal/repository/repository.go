package repository

import (
	"context"
	"time"

	"github.com/navikon/atlasbot/internal/models"
)

type Repository struct {
	db Database
}

// EmployeeManager defines the repository operations the directory resolver
// and the bot commands need: predicate-based lookups plus creation for the
// admin command and the seeder. Lookup order is store insertion order
// (ORDER BY id) and is deliberately left otherwise unspecified.
type EmployeeManager interface {
	FindFirst(ctx context.Context, pred Predicate) (models.Employee, error)
	FindMany(ctx context.Context, pred Predicate) ([]models.Employee, error)
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	CreateEmployee(ctx context.Context, emp models.Employee) (int, error)
	CountEmployees(ctx context.Context) (int, error)
}

// SessionManager defines persistence for per-user conversation history.
type SessionManager interface {
	GetSession(ctx context.Context, sessionID string) ([]models.Message, error)
	SaveSession(ctx context.Context, sessionID string, history []models.Message) error
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteSessionsOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database) *Repository {
	return &Repository{db: db}
}
