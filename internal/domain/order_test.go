package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_Next(t *testing.T) {
	tests := []struct {
		name     string
		status   OrderStatus
		expected OrderStatus
		ok       bool
	}{
		{"pending advances to accepted", StatusPending, StatusAccepted, true},
		{"accepted advances to preparing", StatusAccepted, StatusPreparing, true},
		{"preparing advances to ready", StatusPreparing, StatusReady, true},
		{"ready is terminal", StatusReady, "", false},
		{"unrecognized has no successor", OrderStatus("Cancelled"), "", false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			next, ok := testCase.status.Next()
			assert.Equal(t, testCase.ok, ok)
			assert.Equal(t, testCase.expected, next)
		})
	}
}

func TestOrderStatus_PendingReachesReadyInThreeSteps(t *testing.T) {
	status := StatusPending

	steps := 0
	for {
		next, ok := status.Next()
		if !ok {
			break
		}
		status = next
		steps++
	}

	assert.Equal(t, 3, steps)
	assert.Equal(t, StatusReady, status)

	_, ok := status.Next()
	assert.False(t, ok)
}

func TestOrderStatus_Valid(t *testing.T) {
	for _, status := range []OrderStatus{StatusPending, StatusAccepted, StatusPreparing, StatusReady} {
		assert.True(t, status.Valid(), "expected %s to be recognized", status)
	}

	for _, status := range []OrderStatus{"", "pending", "Cancelled", "Done"} {
		assert.False(t, status.Valid(), "expected %s to be rejected", status)
	}
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"pending to accepted", StatusPending, StatusAccepted, true},
		{"accepted to preparing", StatusAccepted, StatusPreparing, true},
		{"preparing to ready", StatusPreparing, StatusReady, true},
		{"skipping a state is rejected", StatusPending, StatusPreparing, false},
		{"jumping to terminal is rejected", StatusPending, StatusReady, false},
		{"backwards is rejected", StatusPreparing, StatusAccepted, false},
		{"self transition is rejected", StatusAccepted, StatusAccepted, false},
		{"out of ready is rejected", StatusReady, StatusPending, false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.allowed, testCase.from.CanTransitionTo(testCase.to))
		})
	}
}
