package usecase_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/usecase"
	"github.com/iho/rentledger/internal/usecase/mocks"
)

func TestCachedTenantDirectory_MonthlyRent(t *testing.T) {
	t.Run("second lookup served from cache", func(t *testing.T) {
		inner := mocks.NewMockTenantDirectory()
		cache := mocks.NewMockCache()

		var calls int64
		inner.MonthlyRentFunc = func(ctx context.Context, tenantID string) (decimal.Decimal, error) {
			atomic.AddInt64(&calls, 1)
			return decimal.NewFromInt(1200), nil
		}

		dir := usecase.NewCachedTenantDirectory(inner, cache)

		for i := 0; i < 3; i++ {
			rent, err := dir.MonthlyRent(context.Background(), "tenant-1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !rent.Equal(decimal.NewFromInt(1200)) {
				t.Errorf("expected 1200, got %s", rent)
			}
		}

		if calls != 1 {
			t.Errorf("expected 1 directory call, got %d", calls)
		}
		if cache.GetHits != 2 {
			t.Errorf("expected 2 cache hits, got %d", cache.GetHits)
		}
	})

	t.Run("not found propagates and is not cached", func(t *testing.T) {
		inner := mocks.NewMockTenantDirectory()
		cache := mocks.NewMockCache()
		dir := usecase.NewCachedTenantDirectory(inner, cache)

		if _, err := dir.MonthlyRent(context.Background(), "tenant-x"); !errors.Is(err, domain.ErrTenancyNotFound) {
			t.Fatalf("expected ErrTenancyNotFound, got %v", err)
		}

		inner.SetRent("tenant-x", decimal.NewFromInt(900))
		rent, err := dir.MonthlyRent(context.Background(), "tenant-x")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !rent.Equal(decimal.NewFromInt(900)) {
			t.Errorf("expected 900, got %s", rent)
		}
	})

	t.Run("cache write failure does not fail the lookup", func(t *testing.T) {
		inner := mocks.NewMockTenantDirectory()
		inner.SetRent("tenant-1", decimal.NewFromInt(750))
		cache := mocks.NewMockCache()
		cache.SetErr = errors.New("redis down")

		dir := usecase.NewCachedTenantDirectory(inner, cache)
		rent, err := dir.MonthlyRent(context.Background(), "tenant-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !rent.Equal(decimal.NewFromInt(750)) {
			t.Errorf("expected 750, got %s", rent)
		}
	})

	t.Run("corrupt cache entry falls through to the directory", func(t *testing.T) {
		inner := mocks.NewMockTenantDirectory()
		inner.SetRent("tenant-1", decimal.NewFromInt(600))
		cache := mocks.NewMockCache()
		_ = cache.Set(context.Background(), "rent:tenant-1", []byte("not-a-number"), 0)

		dir := usecase.NewCachedTenantDirectory(inner, cache)
		rent, err := dir.MonthlyRent(context.Background(), "tenant-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !rent.Equal(decimal.NewFromInt(600)) {
			t.Errorf("expected 600, got %s", rent)
		}
	})
}
