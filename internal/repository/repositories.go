package repository

import (
	"fmt"

	"github.com/deppfellow/personal-dashboard/internal/config"
	"github.com/deppfellow/personal-dashboard/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Expenses ExpenseStore
}

// NewRepositories builds the expense store for the configured driver from
// the clients opened by server.New.
func NewRepositories(s *server.Server) (*Repositories, error) {
	store, err := newExpenseStore(s)
	if err != nil {
		return nil, err
	}

	return &Repositories{Expenses: store}, nil
}

func newExpenseStore(s *server.Server) (ExpenseStore, error) {
	table := s.Config.Store.Table

	switch s.Config.Store.Driver {
	case config.StoreDriverDynamo:
		if s.Dynamo == nil {
			return nil, fmt.Errorf("dynamodb client not initialized")
		}
		return NewDynamoExpenseStore(s.Dynamo, table, s.Config.Store.CategoryIndex), nil
	case config.StoreDriverRedis:
		if s.Redis == nil {
			return nil, fmt.Errorf("redis client not initialized")
		}
		return NewRedisExpenseStore(s.Redis, table), nil
	case config.StoreDriverPostgres:
		if s.DB == nil {
			return nil, fmt.Errorf("database not initialized")
		}
		return NewPostgresExpenseStore(s.DB.Pool, table), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", s.Config.Store.Driver)
	}
}
