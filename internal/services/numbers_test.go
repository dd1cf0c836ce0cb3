package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// DOCUMENT NUMBER GENERATION
// ============================================================================

func TestGenerateDocumentNumberFormat(t *testing.T) {
	number, err := generateDocumentNumber(context.Background(), func(ctx context.Context, n string) (bool, error) {
		return false, nil
	})

	assert.NoError(t, err)
	assert.Len(t, number, 14)
	assert.Equal(t, time.Now().Format("20060102"), number[:8])
}

func TestGenerateDocumentNumberRetriesOnCollision(t *testing.T) {
	attempts := 0
	number, err := generateDocumentNumber(context.Background(), func(ctx context.Context, n string) (bool, error) {
		attempts++
		return attempts < 3, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Len(t, number, 14)
}

func TestGenerateDocumentNumberFallsBackAfterExhaustion(t *testing.T) {
	number, err := generateDocumentNumber(context.Background(), func(ctx context.Context, n string) (bool, error) {
		return true, nil
	})

	assert.NoError(t, err)
	// The timestamp fallback does not carry the date prefix.
	assert.NotEqual(t, time.Now().Format("20060102"), number[:8])
}

func TestGenerateDocumentNumberPropagatesLookupError(t *testing.T) {
	lookupErr := errors.New("db down")
	_, err := generateDocumentNumber(context.Background(), func(ctx context.Context, n string) (bool, error) {
		return false, lookupErr
	})

	assert.ErrorIs(t, err, lookupErr)
}
