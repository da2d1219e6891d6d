package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fguintu/FlySQL/pkg/models"
)

func TestHistoryService_ListMostRecentFirst(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := newHistoryService(10, func() time.Time { return fixed }, zap.NewNop())

	svc.Record("SELECT 1", models.Params{}, 1, 0.5)
	svc.Record("SELECT 2", models.Params{}, 1, 0.7)

	entries := svc.List()
	require.Len(t, entries, 2)
	assert.Equal(t, "SELECT 2", entries[0].SQL)
	assert.Equal(t, "SELECT 1", entries[1].SQL)
	assert.Equal(t, fixed, entries[0].ExecutedAt)
	assert.Equal(t, 0.7, entries[0].ElapsedMs)
}

func TestHistoryService_KeepsOnlyNamedParams(t *testing.T) {
	svc := NewHistoryService(10, zap.NewNop())

	svc.Record("SELECT * FROM flight WHERE flight_id = $1", models.Positional(int64(7)), 1, 1)
	svc.Record("SELECT * FROM airport WHERE iata = :code",
		models.Named(models.Param{Name: "code", Value: "JFK"}), 1, 1)

	entries := svc.List()
	require.Len(t, entries, 2)

	require.NotNil(t, entries[0].Params)
	v, ok := entries[0].Params.Get("code")
	assert.True(t, ok)
	assert.Equal(t, "JFK", v)
	assert.Equal(t, []string{"airport"}, entries[0].TablesUsed)

	assert.Nil(t, entries[1].Params, "positional params are not retained")
	assert.Equal(t, []string{"flight"}, entries[1].TablesUsed)
}

func TestHistoryService_BoundedToLimit(t *testing.T) {
	svc := NewHistoryService(DefaultHistoryLimit, zap.NewNop())

	for i := 0; i < 250; i++ {
		svc.Record(fmt.Sprintf("SELECT %d", i), models.Params{}, i, 0)
	}

	entries := svc.List()
	require.Len(t, entries, DefaultHistoryLimit)
	for i, entry := range entries {
		assert.Equal(t, fmt.Sprintf("SELECT %d", 249-i), entry.SQL)
	}
}

func TestHistoryService_ListReturnsCopy(t *testing.T) {
	svc := NewHistoryService(5, zap.NewNop())
	svc.Record("SELECT 1", models.Params{}, 1, 0)

	entries := svc.List()
	entries[0].SQL = "mutated"

	assert.Equal(t, "SELECT 1", svc.List()[0].SQL)
}

func TestHistoryService_EmptyListIsNotNil(t *testing.T) {
	svc := NewHistoryService(0, zap.NewNop())
	entries := svc.List()
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestHistoryService_ConcurrentRecord(t *testing.T) {
	tests := []struct {
		name      string
		workers   int
		perWorker int
	}{
		{name: "below limit", workers: 8, perWorker: 10},
		{name: "above limit", workers: 16, perWorker: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewHistoryService(DefaultHistoryLimit, zap.NewNop())

			var wg sync.WaitGroup
			for w := 0; w < tt.workers; w++ {
				wg.Add(1)
				go func(w int) {
					defer wg.Done()
					for i := 0; i < tt.perWorker; i++ {
						svc.Record(fmt.Sprintf("SELECT %d, %d", w, i), models.Params{}, i, 0)
					}
				}(w)
			}
			wg.Wait()

			total := tt.workers * tt.perWorker
			entries := svc.List()
			assert.Len(t, entries, min(total, DefaultHistoryLimit))

			seen := make(map[string]bool, len(entries))
			for _, entry := range entries {
				assert.False(t, seen[entry.SQL], "duplicate entry %q", entry.SQL)
				seen[entry.SQL] = true
			}

			// Per worker, newer entries are listed before older ones.
			lastIndex := make(map[int]int)
			for _, entry := range entries {
				var w, i int
				_, err := fmt.Sscanf(entry.SQL, "SELECT %d, %d", &w, &i)
				require.NoError(t, err)
				if prev, ok := lastIndex[w]; ok {
					assert.Less(t, i, prev)
				}
				lastIndex[w] = i
			}
		})
	}
}
