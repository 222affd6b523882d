package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stubGate(results ...func() (tableFlags, error)) (*SchemaGate, *int) {
	calls := 0
	gate := &SchemaGate{
		probe: func() (tableFlags, error) {
			idx := calls
			if idx >= len(results) {
				idx = len(results) - 1
			}
			calls++
			return results[idx]()
		},
	}
	return gate, &calls
}

func allPresent() (tableFlags, error) {
	return tableFlags{FinalTests: true, FinalTestQuestions: true, FinalTestAttempts: true}, nil
}

func TestSchemaGateAvailableAndCached(t *testing.T) {
	gate, calls := stubGate(allPresent, allPresent)

	assert.True(t, gate.IsAvailable())
	assert.True(t, gate.IsAvailable())
	assert.Equal(t, 1, *calls, "second call must be served from cache")
}

func TestSchemaGateMissingTable(t *testing.T) {
	gate, calls := stubGate(func() (tableFlags, error) {
		return tableFlags{FinalTests: true, FinalTestQuestions: false, FinalTestAttempts: true}, nil
	}, allPresent)

	assert.False(t, gate.IsAvailable())
	// A successful probe is cached even when the answer is "not available".
	assert.False(t, gate.IsAvailable())
	assert.Equal(t, 1, *calls)
}

func TestSchemaGateProbeFailureNotCached(t *testing.T) {
	gate, calls := stubGate(func() (tableFlags, error) {
		return tableFlags{}, errors.New("connection refused")
	}, allPresent, allPresent)

	assert.False(t, gate.IsAvailable(), "failure reports unavailable")
	assert.True(t, gate.IsAvailable(), "next call retries the probe")
	assert.True(t, gate.IsAvailable())
	assert.Equal(t, 2, *calls, "the success is cached, the failure was not")
}

func TestSchemaGateClearCache(t *testing.T) {
	gate, calls := stubGate(allPresent, allPresent)

	assert.True(t, gate.IsAvailable())
	gate.ClearCache()
	assert.True(t, gate.IsAvailable())
	assert.Equal(t, 2, *calls, "clear forces a fresh probe")
}

func TestSchemaGateFailsClosedOnRealQueryError(t *testing.T) {
	// sqlite has no information_schema, so the default probe errors out:
	// the gate must answer false without caching or panicking.
	gate := NewSchemaGate(setupTestDB(t))

	assert.False(t, gate.IsAvailable())
	assert.False(t, gate.IsAvailable())
}
