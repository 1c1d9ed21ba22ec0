package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshwatch/meshwatch/internal/telemetry"
)

func fptr(v float64) *float64 { return &v }

func at(min int) time.Time {
	return time.Date(2025, 6, 1, 12, min, 0, 0, time.UTC)
}

func TestAggregate_SingleNodeScenario(t *testing.T) {
	records := []telemetry.Record{
		{Timestamp: at(0), NodeID: "!9eed0410", Status: telemetry.StatusSuccess, Battery: fptr(85), Voltage: fptr(3.91)},
		{Timestamp: at(5), NodeID: "!9eed0410", Status: telemetry.StatusTimeout},
		{Timestamp: at(10), NodeID: "!9eed0410", Status: telemetry.StatusSuccess, Battery: fptr(90), Voltage: fptr(3.98)},
	}

	stats := Aggregate(records)
	require.Contains(t, stats, "!9eed0410")
	s := stats["!9eed0410"]

	assert.Equal(t, 3, s.TotalAttempts)
	assert.Equal(t, 2, s.SuccessCount)
	assert.Equal(t, 1, s.FailureCount)
	assert.InDelta(t, 66.7, s.SuccessRate, 0.05)

	assert.Equal(t, at(10), s.LastAttempt)
	assert.Equal(t, at(10), s.LastSuccess)

	require.NotNil(t, s.CurrentBattery)
	assert.Equal(t, 90.0, *s.CurrentBattery)
	require.NotNil(t, s.CurrentVoltage)
	assert.Equal(t, 3.98, *s.CurrentVoltage)
	require.NotNil(t, s.MinBattery)
	assert.Equal(t, 85.0, *s.MinBattery)
	require.NotNil(t, s.MaxBattery)
	assert.Equal(t, 90.0, *s.MaxBattery)
}

func TestAggregate_AllFailures(t *testing.T) {
	records := []telemetry.Record{
		{Timestamp: at(0), NodeID: "!33fa44b1", Status: telemetry.StatusTimeout},
		{Timestamp: at(5), NodeID: "!33fa44b1", Status: telemetry.StatusError},
	}

	s := Aggregate(records)["!33fa44b1"]

	assert.Equal(t, 2, s.TotalAttempts)
	assert.Equal(t, 0, s.SuccessCount)
	assert.Equal(t, 0.0, s.SuccessRate)
	assert.Equal(t, at(5), s.LastAttempt)
	assert.True(t, s.LastSuccess.IsZero())
	assert.Nil(t, s.CurrentBattery)
	assert.Nil(t, s.MinBattery)
}

func TestAggregate_SuccessWithoutMetricsKeepsPrevious(t *testing.T) {
	records := []telemetry.Record{
		{Timestamp: at(0), NodeID: "!9eed0410", Status: telemetry.StatusSuccess, Battery: fptr(85)},
		{Timestamp: at(5), NodeID: "!9eed0410", Status: telemetry.StatusSuccess},
	}

	s := Aggregate(records)["!9eed0410"]

	// A success that reported no battery does not clear the last known one.
	require.NotNil(t, s.CurrentBattery)
	assert.Equal(t, 85.0, *s.CurrentBattery)
	assert.Equal(t, at(5), s.LastSuccess)
}

func TestAggregate_ZeroBatteryIsAValue(t *testing.T) {
	records := []telemetry.Record{
		{Timestamp: at(0), NodeID: "!9eed0410", Status: telemetry.StatusSuccess, Battery: fptr(0)},
	}

	s := Aggregate(records)["!9eed0410"]

	require.NotNil(t, s.CurrentBattery)
	assert.Equal(t, 0.0, *s.CurrentBattery)
	assert.Equal(t, 0.0, *s.MinBattery)
}

func TestAggregate_MultipleNodes(t *testing.T) {
	records := []telemetry.Record{
		{Timestamp: at(0), NodeID: "!9eed0410", Status: telemetry.StatusSuccess, Battery: fptr(85)},
		{Timestamp: at(0), NodeID: "!33fa44b1", Status: telemetry.StatusTimeout},
	}

	stats := Aggregate(records)

	assert.Len(t, stats, 2)
	assert.Equal(t, 1, stats["!9eed0410"].SuccessCount)
	assert.Equal(t, 1, stats["!33fa44b1"].FailureCount)
}

func TestAggregate_Idempotent(t *testing.T) {
	records := []telemetry.Record{
		{Timestamp: at(0), NodeID: "!9eed0410", Status: telemetry.StatusSuccess, Battery: fptr(85)},
		{Timestamp: at(5), NodeID: "!9eed0410", Status: telemetry.StatusError},
	}

	assert.Equal(t, Aggregate(records), Aggregate(records))
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
}

func TestSortedIDs(t *testing.T) {
	records := []telemetry.Record{
		{Timestamp: at(0), NodeID: "!00000001", Status: telemetry.StatusSuccess},
		{Timestamp: at(0), NodeID: "!00000002", Status: telemetry.StatusTimeout},
		{Timestamp: at(0), NodeID: "!00000003", Status: telemetry.StatusSuccess},
		{Timestamp: at(5), NodeID: "!00000003", Status: telemetry.StatusTimeout},
	}

	ids := SortedIDs(Aggregate(records))

	assert.Equal(t, []string{"!00000001", "!00000003", "!00000002"}, ids)
}
