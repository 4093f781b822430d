package metrics_test

import (
	"testing"

	"github.com/aretw0/prr/internal/metrics"
	"github.com/aretw0/prr/pkg/domain"
	"github.com/aretw0/prr/pkg/network"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooks_RecordNetworkActivity(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	n := network.New(network.WithLifecycleHooks(m.Hooks()))

	require.NoError(t, n.RegisterClient("A1", "Ann", "100"))
	require.NoError(t, n.RegisterClient("B1", "Bob", "200"))
	require.NoError(t, n.RegisterTerminal("FANCY", "111111", "A1", "ON"))
	require.NoError(t, n.RegisterTerminal("FANCY", "222222", "B1", "OFF"))

	_, err := n.SendText("111111", "222222", "hi")
	require.Error(t, err)
	require.NoError(t, n.TurnOn("222222"))

	comm, err := n.StartInteractive("111111", "222222", domain.CommVoice)
	require.NoError(t, err)
	cost, err := n.EndInteractive("111111", 10)
	require.NoError(t, err)
	require.NoError(t, n.Pay("111111", comm.ID()))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("OFF", "IDLE")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transitions.WithLabelValues("IDLE", "BUSY")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transitions.WithLabelValues("BUSY", "IDLE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Communications.WithLabelValues("VOICE")))
	assert.Equal(t, float64(cost)/100, testutil.ToFloat64(m.Billed.WithLabelValues("VOICE", "NORMAL")))
	assert.Equal(t, float64(cost)/100, testutil.ToFloat64(m.Payments))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("O2I")))
}

func TestNew_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg)
	assert.Panics(t, func() { metrics.New(reg) })
}
