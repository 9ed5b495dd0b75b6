package analytics_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/idcr-client/internal/application/analytics"
	"github.com/jhoicas/idcr-client/internal/application/dto"
	"github.com/jhoicas/idcr-client/internal/domain"
)

type fakeStats struct {
	snap  *dto.StatsSnapshot
	err   error
	delay time.Duration
}

func (f *fakeStats) GetDashboardStats(ctx context.Context) (*dto.StatsSnapshot, error) {
	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return f.snap, f.err
}

type fakeDocs struct {
	docs   []dto.Document
	err    error
	delay  time.Duration
	filter atomic.Value
}

func (f *fakeDocs) List(_ context.Context, filter dto.DocumentFilter) ([]dto.Document, error) {
	f.filter.Store(filter)
	time.Sleep(f.delay)
	return f.docs, f.err
}

func TestDashboard_AmbosWidgetsOK(t *testing.T) {
	stats := &fakeStats{snap: &dto.StatsSnapshot{TotalDocuments: 3, ProcessingRate: decimal.RequireFromString("66.7")}}
	docs := &fakeDocs{docs: []dto.Document{{ID: "d-1"}, {ID: "d-2"}}}

	d := analytics.NewDashboardUseCase(stats, docs).Load(context.Background())

	require.NoError(t, d.Err())
	assert.Equal(t, 3, d.Stats.TotalDocuments)
	assert.Len(t, d.Recent, 2)

	f := docs.filter.Load().(dto.DocumentFilter)
	assert.Equal(t, 5, f.Limit)
}

func TestDashboard_UnFalloNoOcultaElOtro(t *testing.T) {
	cause := &domain.APIError{Kind: domain.KindServer, StatusCode: 500, Message: "boom"}
	stats := &fakeStats{err: cause}
	docs := &fakeDocs{docs: []dto.Document{{ID: "d-1"}}}

	d := analytics.NewDashboardUseCase(stats, docs).Load(context.Background())

	assert.True(t, errors.Is(d.StatsErr, domain.ErrServer))
	assert.Nil(t, d.Stats)
	assert.NoError(t, d.RecentErr)
	assert.Len(t, d.Recent, 1)
	assert.Same(t, d.StatsErr, d.Err())
}

func TestDashboard_ConsultasEnParalelo(t *testing.T) {
	stats := &fakeStats{snap: &dto.StatsSnapshot{}, delay: 150 * time.Millisecond}
	docs := &fakeDocs{delay: 150 * time.Millisecond}

	start := time.Now()
	d := analytics.NewDashboardUseCase(stats, docs).Load(context.Background())

	require.NoError(t, d.Err())
	assert.Less(t, time.Since(start), 280*time.Millisecond)
}
