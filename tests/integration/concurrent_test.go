package integration

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/adapter/http/dto"
)

// TestConcurrentFinalize hammers the completion endpoint; the row lock
// must let every call succeed with identical frozen totals.
func TestConcurrentFinalize(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	deposit := e.DB.CreateTestDeposit(ctx, "tenant-1", "property-1", decimal.NewFromInt(1000))
	inspection := e.DB.CreateTestInspection(ctx, deposit)
	e.DB.CreateTestDeduction(ctx, inspection.ID, "cleaning", decimal.NewFromInt(150))

	const callers = 10
	var wg sync.WaitGroup
	results := make(chan dto.InspectionResponse, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := e.do(t, http.MethodPost, "/api/v1/inspections/"+inspection.ID+"/complete", nil)
			if w.Code != http.StatusOK {
				t.Errorf("expected 200, got %d: %s", w.Code, w.Body.String())
				return
			}
			var resp dto.InspectionResponse
			decodeJSON(t, w, &resp)
			results <- resp
		}()
	}
	wg.Wait()
	close(results)

	for resp := range results {
		if resp.Status != "completed" {
			t.Errorf("expected completed, got %s", resp.Status)
		}
		if !resp.TotalDeductions.Equal(decimal.NewFromInt(150)) {
			t.Errorf("expected total 150, got %s", resp.TotalDeductions)
		}
	}

	w := e.do(t, http.MethodGet, "/api/v1/ledger/consistency", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected consistent ledger, got %d: %s", w.Code, w.Body.String())
	}
}

// TestConcurrentRefund sends parallel refund requests; exactly one may win.
func TestConcurrentRefund(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	deposit := e.DB.CreateTestDeposit(ctx, "tenant-1", "property-1", decimal.NewFromInt(1000))
	inspection := e.DB.CreateTestInspection(ctx, deposit)

	if w := e.do(t, http.MethodPost, "/api/v1/inspections/"+inspection.ID+"/complete", nil); w.Code != http.StatusOK {
		t.Fatalf("failed to complete inspection: %d %s", w.Code, w.Body.String())
	}

	const callers = 8
	var wg sync.WaitGroup
	codes := make(chan int, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := e.do(t, http.MethodPost, "/api/v1/refunds", dto.ProcessRefundRequest{
				TenantID:   "tenant-1",
				PropertyID: "property-1",
			})
			codes <- w.Code
		}()
	}
	wg.Wait()
	close(codes)

	var succeeded, rejected int
	for code := range codes {
		switch code {
		case http.StatusOK:
			succeeded++
		case http.StatusConflict:
			rejected++
		default:
			t.Errorf("unexpected status %d", code)
		}
	}

	if succeeded != 1 {
		t.Errorf("expected exactly one refund to succeed, got %d", succeeded)
	}
	if rejected != callers-1 {
		t.Errorf("expected %d conflicts, got %d", callers-1, rejected)
	}
}
