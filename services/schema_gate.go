package services

import (
	"sync"

	"gorm.io/gorm"
)

// finalTestTablesQuery checks all three optional tables in one round trip.
const finalTestTablesQuery = `
SELECT
	EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'final_tests') AS final_tests,
	EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'final_test_questions') AS final_test_questions,
	EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'final_test_attempts') AS final_test_attempts`

type tableFlags struct {
	FinalTests         bool
	FinalTestQuestions bool
	FinalTestAttempts  bool
}

// SchemaGate answers whether the optional final-test tables exist, so
// feature logic can branch without re-querying the schema on every request.
// The first successful probe is cached for the process lifetime; a failed
// probe is reported as "not available" but never cached, so a transient
// connection error does not pin the feature off.
type SchemaGate struct {
	mu        sync.Mutex
	available *bool
	probe     func() (tableFlags, error)
}

func NewSchemaGate(db *gorm.DB) *SchemaGate {
	return &SchemaGate{
		probe: func() (tableFlags, error) {
			var flags tableFlags
			if err := db.Raw(finalTestTablesQuery).Scan(&flags).Error; err != nil {
				return tableFlags{}, err
			}
			return flags, nil
		},
	}
}

// IsAvailable reports whether all three final-test tables are present.
func (g *SchemaGate) IsAvailable() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.available != nil {
		return *g.available
	}

	flags, err := g.probe()
	if err != nil {
		// Fail closed, leave the cache empty: the next call retries.
		return false
	}

	ok := flags.FinalTests && flags.FinalTestQuestions && flags.FinalTestAttempts
	g.available = &ok
	return ok
}

// ClearCache forces the next IsAvailable call to probe the schema again.
// Called after the final-test tables have been migrated.
func (g *SchemaGate) ClearCache() {
	g.mu.Lock()
	g.available = nil
	g.mu.Unlock()
}
