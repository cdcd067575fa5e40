package deliverylog

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
)

func report(id string, ok bool) model.DeliveryReport {
	return model.DeliveryReport{
		AlertID: id,
		Channels: map[model.Channel]model.DeliveryOutcome{
			model.ChannelEmail: {Channel: model.ChannelEmail, Success: ok},
		},
		OverallSuccess: ok,
	}
}

func alertIDs(reports []model.DeliveryReport) []string {
	ids := make([]string, len(reports))
	for i, r := range reports {
		ids[i] = r.AlertID
	}
	return ids
}

func TestMemory_EmptyLog(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(3)

	last, err := m.Last(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)

	list, err := m.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	total, err := m.Total(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestMemory_EvictsOldestAtCapacity(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(3)

	for i := 1; i <= 5; i++ {
		require.NoError(t, m.Append(ctx, report(fmt.Sprintf("ALT_%d", i), true)))
	}

	list, err := m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ALT_3", "ALT_4", "ALT_5"}, alertIDs(list))

	n, err := m.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	total, err := m.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)

	last, err := m.Last(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "ALT_5", last.AlertID)
}

func TestMemory_DefaultCapacity(t *testing.T) {
	m := NewMemory(0)
	assert.Len(t, m.buf, DefaultCapacity)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2)

	in := report("ALT_1", true)
	require.NoError(t, m.Append(ctx, in))
	in.Channels[model.ChannelEmail] = model.DeliveryOutcome{Success: false}

	list, err := m.List(ctx)
	require.NoError(t, err)
	list[0].Channels[model.ChannelEmail] = model.DeliveryOutcome{Success: false}

	last, err := m.Last(ctx)
	require.NoError(t, err)
	assert.True(t, last.Channels[model.ChannelEmail].Success)
}

func TestMemory_ConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.Append(ctx, report(fmt.Sprintf("ALT_%d", i), i%2 == 0))
			_, _ = m.List(ctx)
		}(i)
	}
	wg.Wait()

	total, err := m.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(50), total)

	n, err := m.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}
