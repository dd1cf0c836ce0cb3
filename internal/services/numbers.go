package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// generateDocumentNumber produces a date-prefixed number (YYYYMMDD plus six
// random digits), retrying against the uniqueness check up to five times and
// falling back to a millisecond timestamp when every attempt collides.
func generateDocumentNumber(ctx context.Context, exists func(context.Context, string) (bool, error)) (string, error) {
	now := time.Now()
	prefix := now.Format("20060102")

	for attempt := 0; attempt < 5; attempt++ {
		candidate := fmt.Sprintf("%s%06d", prefix, rand.Intn(1000000))

		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check number uniqueness: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}

	return fmt.Sprintf("%d", now.UnixMilli()), nil
}
