package bipmetrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squidpickles/bipbuffer"
)

// wrappedBuffer returns a buffer of 8 bytes holding 2 readable bytes and 3
// bytes that wrapped around to the start of storage.
func wrappedBuffer(t *testing.T) *bipbuffer.SafeBuffer[byte] {
	t.Helper()
	sb := bipbuffer.NewSafeBuffer[byte](8)
	require.Equal(t, 6, bipbuffer.SafePush(sb, []byte("abcdef")))
	n, err := sb.Decommit(4)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, 3, bipbuffer.SafePush(sb, []byte("ghi")))
	return sb
}

func TestCollectorCount(t *testing.T) {
	c := NewCollector("test", bipbuffer.NewSafeBuffer[int](4))
	assert.Equal(t, 12, testutil.CollectAndCount(c))
}

func TestCollectorValues(t *testing.T) {
	c := NewCollector("ingress", wrappedBuffer(t))

	expected := `
# HELP bipbuffer_capacity_elements Number of elements in the backing storage
# TYPE bipbuffer_capacity_elements gauge
bipbuffer_capacity_elements{buffer="ingress"} 8
# HELP bipbuffer_committed_elements Elements committed and not yet decommitted
# TYPE bipbuffer_committed_elements gauge
bipbuffer_committed_elements{buffer="ingress"} 5
# HELP bipbuffer_readable_elements Length of the next readable block
# TYPE bipbuffer_readable_elements gauge
bipbuffer_readable_elements{buffer="ingress"} 2
# HELP bipbuffer_wrapped 1 if committed data wraps around the end of storage
# TYPE bipbuffer_wrapped gauge
bipbuffer_wrapped{buffer="ingress"} 1
# HELP bipbuffer_committed_elements_total Total number of elements committed
# TYPE bipbuffer_committed_elements_total counter
bipbuffer_committed_elements_total{buffer="ingress"} 9
# HELP bipbuffer_wraps_total Total number of times committed data started wrapping around
# TYPE bipbuffer_wraps_total counter
bipbuffer_wraps_total{buffer="ingress"} 1
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"bipbuffer_capacity_elements",
		"bipbuffer_committed_elements",
		"bipbuffer_readable_elements",
		"bipbuffer_wrapped",
		"bipbuffer_committed_elements_total",
		"bipbuffer_wraps_total",
	)
	assert.NoError(t, err)
}

func TestCollectorFollowsSource(t *testing.T) {
	sb := bipbuffer.NewSafeBuffer[byte](10)
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(NewCollector("live", sb)))

	require.Equal(t, 10, bipbuffer.SafePush(sb, []byte("helloworld")))
	_, err := sb.Reserve(1)
	assert.ErrorIs(t, err, bipbuffer.ErrNoSpace)
	_, err = sb.Decommit(5)
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		require.Len(t, mf.GetMetric(), 1)
		m := mf.GetMetric()[0]
		switch {
		case m.GetGauge() != nil:
			values[mf.GetName()] = m.GetGauge().GetValue()
		case m.GetCounter() != nil:
			values[mf.GetName()] = m.GetCounter().GetValue()
		}
	}

	assert.Equal(t, 5.0, values["bipbuffer_committed_elements"])
	assert.Equal(t, 0.5, values["bipbuffer_utilization_ratio"])
	assert.Equal(t, 0.0, values["bipbuffer_wrapped"])
	assert.Equal(t, 1.0, values["bipbuffer_reservations_total"])
	assert.Equal(t, 1.0, values["bipbuffer_reservation_failures_total"])
	assert.Equal(t, 5.0, values["bipbuffer_decommitted_elements_total"])
}

func TestCollectorsShareRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(NewCollector("a", bipbuffer.NewSafeBuffer[byte](1))))
	require.NoError(t, reg.Register(NewCollector("b", bipbuffer.NewSafeBuffer[byte](2))))
	assert.Error(t, reg.Register(NewCollector("a", bipbuffer.NewSafeBuffer[byte](3))))
}
