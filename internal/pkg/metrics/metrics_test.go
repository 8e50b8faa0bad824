package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type fakeStat struct{}

func (fakeStat) AcquiredConns() int32 { return 2 }
func (fakeStat) IdleConns() int32     { return 3 }
func (fakeStat) TotalConns() int32    { return 5 }

func TestObserveSolve(t *testing.T) {
	before := testutil.ToFloat64(GeodesicNonConverged.WithLabelValues("test"))
	ObserveSolve("test", 4, true)
	ObserveSolve("test", 250, false)

	assert.Equal(t, before+1, testutil.ToFloat64(GeodesicNonConverged.WithLabelValues("test")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(GeodesicSolves.WithLabelValues("test")), 2.0)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "error", Outcome(errors.New("boom")))
}

func TestUpdateDBPoolMetrics(t *testing.T) {
	UpdateDBPoolMetrics(fakeStat{})
	assert.Equal(t, 5.0, testutil.ToFloat64(DBPoolConnsOpen))
	assert.Equal(t, 3.0, testutil.ToFloat64(DBPoolConnsIdle))
	assert.Equal(t, 2.0, testutil.ToFloat64(DBPoolConnsAcquired))
}
