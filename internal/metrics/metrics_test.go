package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ossuary/internal/ludog"
	"github.com/mesh-intelligence/ossuary/pkg/store"
	"github.com/mesh-intelligence/ossuary/pkg/types"
)

var _ store.Observer = (*Observer)(nil)

func TestObserverCountsOperations(t *testing.T) {
	o := New()
	o.ObserveOp("Block", store.OpInter, time.Microsecond)
	o.ObserveOp("Block", store.OpInter, time.Microsecond)
	o.ObserveOp("Block", store.OpExhume, time.Microsecond)
	o.ObserveWait("Block", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(o.ops.WithLabelValues("Block", store.OpInter)))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.ops.WithLabelValues("Block", store.OpExhume)))
	assert.Equal(t, 1, testutil.CollectAndCount(o.waits))
}

func TestObserverWiredIntoStore(t *testing.T) {
	o := New()
	s, err := ludog.NewStore(ludog.WithObserver(o), ludog.WithLocking(types.LockingRWMutex))
	require.NoError(t, err)
	block := ludog.NewBlock(s)
	ludog.NewStatementItem(0, block, nil, s)
	block.R18Statement(s)

	assert.Equal(t, 1.0, testutil.ToFloat64(o.ops.WithLabelValues(ludog.EntityBlock, store.OpInter)))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.ops.WithLabelValues(ludog.EntityStatement, store.OpLookup)))

	rows, err := o.Summary()
	require.NoError(t, err)
	assert.NotEmpty(t, rows)

	var m dto.Metric
	require.NoError(t, o.waits.WithLabelValues(ludog.EntityStatement).(interface{ Write(*dto.Metric) error }).Write(&m))
	assert.Positive(t, m.GetHistogram().GetSampleCount())
}
