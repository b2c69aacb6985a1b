package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResearchKindIsValid(t *testing.T) {
	assert.True(t, ResearchKindMultiSource.IsValid())
	assert.True(t, ResearchKindCoreSignal.IsValid())
	assert.False(t, ResearchKind("apollo").IsValid())
	assert.False(t, ResearchKind("").IsValid())
}

func TestJobStatus(t *testing.T) {
	tests := []struct {
		status   JobStatus
		valid    bool
		terminal bool
	}{
		{JobStatusPending, true, false},
		{JobStatusRunning, true, false},
		{JobStatusCompleted, true, true},
		{JobStatusFailed, true, true},
		{JobStatus("cancelled"), false, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, tt.status.IsValid(), "status %q", tt.status)
		assert.Equal(t, tt.terminal, tt.status.IsTerminal(), "status %q", tt.status)
	}
}
