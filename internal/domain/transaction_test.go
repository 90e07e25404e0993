package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTransactionDuration(t *testing.T) {
	start := time.Date(2026, 8, 14, 9, 0, 0, 0, time.UTC)

	active := Transaction{Timestamp: start}
	assert.True(t, active.IsActive())
	assert.Equal(t, 90*time.Minute, active.Duration(start.Add(90*time.Minute)))

	completed := Transaction{
		Timestamp: start,
		Stop:      &TransactionStop{Timestamp: start.Add(45 * time.Minute)},
	}
	assert.False(t, completed.IsActive())
	// A completed session measures against its stop time, not now.
	assert.Equal(t, 45*time.Minute, completed.Duration(start.Add(3*time.Hour)))
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&User{FirstName: "Ada", Name: "Lovelace"}).FullName())
	assert.Equal(t, "Lovelace", (&User{Name: "Lovelace"}).FullName())
}
