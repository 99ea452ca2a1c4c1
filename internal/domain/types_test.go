package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stephaneglaugier91/daulingo/internal/domain"
)

func TestStateValid(t *testing.T) {
	for _, s := range domain.States {
		assert.True(t, s.Valid(), "state %s", s)
	}
	assert.False(t, domain.State("DORMANT").Valid())
	assert.False(t, domain.State("").Valid())
}

func TestStateEngaged(t *testing.T) {
	assert.True(t, domain.StateNew.Engaged())
	assert.True(t, domain.StateCurrent.Engaged())
	assert.True(t, domain.StateResurrected.Engaged())
	assert.False(t, domain.StateAtRisk.Engaged())
	assert.False(t, domain.StateChurned.Engaged())
}
