package stock

import (
	"errors"
	"fmt"
	"testing"

	"github.com/anovak/pharmstock/internal/model"
)

func TestRunShortCircuits(t *testing.T) {
	calls := 0
	failing := func() error {
		calls++
		return fmt.Errorf("boom: %w", ErrValidation)
	}
	counting := func() error {
		calls++
		return nil
	}

	err := Run(counting, failing, counting)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected the failing guard's error, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected evaluation to stop at the failure, got %d calls", calls)
	}

	if err := Run(counting, counting); err != nil {
		t.Errorf("expected nil for passing guards, got %v", err)
	}
	if err := Run(); err != nil {
		t.Errorf("expected nil for no guards, got %v", err)
	}
}

func TestGuardErrorKinds(t *testing.T) {
	transfer := &model.StockTransfer{
		BusinessID:          1,
		SourceOutletID:      10,
		DestinationOutletID: 20,
		Status:              model.TransferStarted,
	}
	inTransit := &model.StockTransfer{
		BusinessID:          1,
		SourceOutletID:      10,
		DestinationOutletID: 20,
		Status:              model.TransferInTransit,
	}
	atSource := Caller{BusinessID: 1, OutletID: 10}
	atDestination := Caller{BusinessID: 1, OutletID: 20}
	outsider := Caller{BusinessID: 2, OutletID: 30}

	tests := []struct {
		name  string
		guard guard
		want  error
	}{
		{"status mismatch", StatusIs(inTransit, model.TransferStarted), ErrState},
		{"same outlet", DistinctOutlets(10, 10), ErrValidation},
		{"outlet foreign business", OutletInBusiness(&model.Outlet{BusinessID: 2}, 1), ErrValidation},
		{"caller foreign business", CallerInBusiness(outsider, transfer), ErrAuthorization},
		{"caller not at source", CallerAtSource(atDestination, transfer), ErrAuthorization},
		{"caller not at destination", CallerAtDestination(atSource, transfer), ErrAuthorization},
		{"send from destination", ActionAllowed(atDestination, transfer, model.ActionSend), ErrAuthorization},
		{"send while in transit", ActionAllowed(atSource, inTransit, model.ActionSend), ErrState},
		{"query from source", ActionAllowed(atSource, inTransit, model.ActionQuery), ErrAuthorization},
		{"query before send", ActionAllowed(atDestination, transfer, model.ActionQuery), ErrState},
		{"unknown action", ActionAllowed(atSource, transfer, "RECALL"), ErrValidation},
		{"no lines", HasLines(nil), ErrValidation},
		{"zero quantity", QuantityPositive(0), ErrValidation},
		{"negative quantity", QuantityPositive(-1), ErrValidation},
		{"batch at wrong outlet", BatchAtOutlet(&model.ProductBatch{OutletID: 20}, 10), ErrValidation},
		{"over-reservation", ReservationHeadroom(&model.ProductBatch{Quantity: 10}, 7, 4), ErrCapacity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.guard()
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestGuardsPass(t *testing.T) {
	transfer := &model.StockTransfer{
		BusinessID:          1,
		SourceOutletID:      10,
		DestinationOutletID: 20,
		Status:              model.TransferStarted,
	}
	atSource := Caller{BusinessID: 1, OutletID: 10}

	guards := []guard{
		StatusIs(transfer, model.TransferStarted),
		DistinctOutlets(10, 20),
		OutletInBusiness(&model.Outlet{BusinessID: 1}, 1),
		CallerInBusiness(atSource, transfer),
		CallerAtSource(atSource, transfer),
		ActionAllowed(atSource, transfer, model.ActionSend),
		HasLines([]model.TransferBatch{{}}),
		QuantityPositive(1),
		BatchAtOutlet(&model.ProductBatch{OutletID: 10}, 10),
		// Exactly filling the remaining headroom is allowed.
		ReservationHeadroom(&model.ProductBatch{Quantity: 10}, 7, 3),
	}

	if err := Run(guards...); err != nil {
		t.Errorf("expected all guards to pass, got %v", err)
	}
}

func TestInsufficientStockError(t *testing.T) {
	err := &InsufficientStockError{Lines: []string{
		"can't supply 8 of Paracetamol 500mg, 5 available",
		"can't supply 4 of Ibuprofen 200mg, 0 available",
	}}

	if !errors.Is(err, ErrCapacity) {
		t.Error("expected InsufficientStockError to unwrap to the capacity error")
	}

	var got *InsufficientStockError
	if !errors.As(error(err), &got) || len(got.Lines) != 2 {
		t.Errorf("expected both shortfall lines preserved, got %v", got)
	}
}
