package usecase

import (
	"context"

	"github.com/shopspring/decimal"
)

// CachedTenantDirectory is a read-through cache over a TenantDirectory.
// Monthly rent changes rarely; a short TTL keeps the legal-cap check off
// the directory's hot path without risking a stale cap for long.
type CachedTenantDirectory struct {
	inner TenantDirectory
	cache Cache
}

func NewCachedTenantDirectory(inner TenantDirectory, cache Cache) *CachedTenantDirectory {
	return &CachedTenantDirectory{inner: inner, cache: cache}
}

func (d *CachedTenantDirectory) MonthlyRent(ctx context.Context, tenantID string) (decimal.Decimal, error) {
	key := "rent:" + tenantID

	if cached, err := d.cache.Get(ctx, key); err == nil {
		if rent, err := decimal.NewFromString(string(cached)); err == nil {
			return rent, nil
		}
	}

	rent, err := d.inner.MonthlyRent(ctx, tenantID)
	if err != nil {
		return decimal.Zero, err
	}

	// Best-effort: a failed cache write must not fail the lookup.
	_ = d.cache.Set(ctx, key, []byte(rent.String()), RentCacheTTL)

	return rent, nil
}
