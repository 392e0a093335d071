package usecase

import "context"

// ReconciliationUseCase runs ledger-wide consistency checks: every deposit
// row must satisfy refundable = max(0, deposit - deductions), and every
// completed inspection's frozen total must equal the sum of its items.
type ReconciliationUseCase struct {
	ledgerRepo LedgerRepository
}

func NewReconciliationUseCase(ledgerRepo LedgerRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{ledgerRepo: ledgerRepo}
}

// ConsistencyReport is the result of a full ledger scan.
type ConsistencyReport struct {
	DepositViolations    int64 `json:"deposit_violations"`
	InspectionViolations int64 `json:"inspection_violations"`
	Consistent           bool  `json:"consistent"`
}

func (uc *ReconciliationUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	depositViolations, inspectionViolations, err := uc.ledgerRepo.CheckConsistency(ctx)
	if err != nil {
		return nil, err
	}

	return &ConsistencyReport{
		DepositViolations:    depositViolations,
		InspectionViolations: inspectionViolations,
		Consistent:           depositViolations == 0 && inspectionViolations == 0,
	}, nil
}
