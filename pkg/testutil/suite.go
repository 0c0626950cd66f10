package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shiftboard/shiftboard-backend/pkg/database"
	"github.com/shiftboard/shiftboard-backend/pkg/logger"
)

// IntegrationSuite owns one PostgreSQL container for a test package.
//
// Usage:
//
//	var suite *testutil.IntegrationSuite
//
//	func TestMain(m *testing.M) {
//	    ctx := context.Background()
//	    s, err := testutil.NewIntegrationSuite(ctx, repository.Schema)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    suite = s
//	    code := m.Run()
//	    _ = suite.Cleanup(ctx)
//	    os.Exit(code)
//	}
type IntegrationSuite struct {
	Container *PostgresContainer
	DB        *database.DB
	Fixtures  *FixtureFactory
}

// NewIntegrationSuite starts a container and applies schema to it.
func NewIntegrationSuite(ctx context.Context, schema string) (*IntegrationSuite, error) {
	container, err := NewPostgresContainer(ctx, DefaultPostgresConfig())
	if err != nil {
		return nil, err
	}

	raw, err := container.Connect(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	db := database.Wrap(raw, logger.Nop())
	if schema != "" {
		if _, err := db.ExecContext(ctx, schema); err != nil {
			_ = db.Close()
			_ = container.Terminate(ctx)
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	return &IntegrationSuite{
		Container: container,
		DB:        db,
		Fixtures:  NewFixtureFactory(),
	}, nil
}

// Truncate empties tables between tests.
func (s *IntegrationSuite) Truncate(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	_, err := s.DB.ExecContext(ctx, "TRUNCATE "+strings.Join(tables, ", ")+" CASCADE")
	return err
}

// Cleanup closes the connection and removes the container.
func (s *IntegrationSuite) Cleanup(ctx context.Context) error {
	if s.DB != nil {
		_ = s.DB.Close()
	}
	if s.Container != nil {
		return s.Container.Terminate(ctx)
	}
	return nil
}

// IsCI reports whether tests run under a CI system.
func IsCI() bool {
	return os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != ""
}
