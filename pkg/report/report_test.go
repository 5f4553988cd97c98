package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/firmworks/hiltest.go/pkg/runner"
	"github.com/firmworks/hiltest.go/pkg/telemetry"
)

func TestNewFromResult(t *testing.T) {
	res := runner.Result{
		Verdict: runner.Failed,
		Session: &telemetry.Outcome{
			Counters: telemetry.Counters{Errors: 2, Warnings: 1},
			Reason:   telemetry.ReadTimeout,
		},
		Duration: 1500 * time.Millisecond,
	}
	r := New("stm32-u5", "/tmp/build/fw.elf", res)

	require.Equal(t, "stm32-u5", r.Platform)
	require.Equal(t, "fw.elf", r.Image)
	require.Equal(t, "FAILED", r.Verdict)
	require.Equal(t, "timeout", r.Reason)
	require.Equal(t, 2, r.Errors)
	require.Equal(t, 1, r.Warnings)
	require.Equal(t, 0, r.AssertFails)
	require.Equal(t, 1.5, r.DurationSec)
	require.NotEmpty(t, r.Station)
}

func TestNewWithoutSession(t *testing.T) {
	r := New("stm32-u5", "fw.elf", runner.Result{Verdict: runner.Failed})
	require.Equal(t, "FAILED", r.Verdict)
	require.Empty(t, r.Reason)
}

func TestEncode(t *testing.T) {
	res := runner.Result{
		Verdict: runner.Passed,
		Session: &telemetry.Outcome{Reason: telemetry.FinishReceived},
	}
	payload, err := New("stm32-l4", "fw.elf", res).Encode()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	require.Equal(t, "PASSED", decoded["verdict"])
	require.Equal(t, "finish", decoded["reason"])
	require.Equal(t, float64(0), decoded["errors"])
}

func TestStationIDStable(t *testing.T) {
	first := StationID()
	require.NotEmpty(t, first)
	require.Equal(t, first, StationID())
}
