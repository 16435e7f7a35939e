package metrics

import (
	"testing"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordMutation_CountsOutcomes(t *testing.T) {
	c := NewCollector()

	c.RecordMutation("update_prompt", true)
	c.RecordMutation("update_prompt", true)
	c.RecordMutation("toggle_like", false)

	assert.Equal(t, 2.0, promtestutil.ToFloat64(c.mutations.WithLabelValues("update_prompt", "committed")))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(c.mutations.WithLabelValues("toggle_like", "rolled_back")))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(c.rollbacks))
}

func TestSetActiveWorkspaces(t *testing.T) {
	c := NewCollector()
	c.SetActiveWorkspaces(7)
	assert.Equal(t, 7.0, promtestutil.ToFloat64(c.activeUsers))
}
