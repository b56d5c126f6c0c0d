package stock

import (
	"fmt"

	"github.com/anovak/pharmstock/internal/model"
)

// Caller is the explicit request context every operation receives:
// who is acting, for which business, and from which outlet. It is
// resolved once at the API boundary, never from ambient state.
type Caller struct {
	UserID     int64
	Username   string
	Role       string
	BusinessID int64
	OutletID   int64
}

// A guard is a single precondition check. Guards are composed per
// operation with Run; the first failing guard short-circuits.
type guard func() error

// Run evaluates guards in order and returns the first failure.
func Run(guards ...guard) error {
	for _, g := range guards {
		if err := g(); err != nil {
			return err
		}
	}
	return nil
}

// StatusIs allows an operation only while the transfer is in the given
// status.
func StatusIs(t *model.StockTransfer, only string) guard {
	return func() error {
		if t.Status != only {
			return fmt.Errorf("cannot modify stock transfer when %s: %w", t.Status, ErrState)
		}
		return nil
	}
}

// DistinctOutlets rejects a transfer whose source and destination are
// the same outlet.
func DistinctOutlets(sourceID, destinationID int64) guard {
	return func() error {
		if sourceID == destinationID {
			return fmt.Errorf("a stock transfer cannot go to the outlet it comes from: %w", ErrValidation)
		}
		return nil
	}
}

// OutletInBusiness requires the outlet to belong to the given business.
func OutletInBusiness(o *model.Outlet, businessID int64) guard {
	return func() error {
		if o.BusinessID != businessID {
			return fmt.Errorf("the selected outlet does not belong to this business: %w", ErrValidation)
		}
		return nil
	}
}

// CallerInBusiness requires the caller's business to match the
// transfer's business.
func CallerInBusiness(c Caller, t *model.StockTransfer) guard {
	return func() error {
		if c.BusinessID != t.BusinessID {
			return fmt.Errorf("user is not in the stock transfer business: %w", ErrAuthorization)
		}
		return nil
	}
}

// CallerAtSource requires the caller's default outlet to be the
// transfer's source outlet.
func CallerAtSource(c Caller, t *model.StockTransfer) guard {
	return func() error {
		if c.OutletID != t.SourceOutletID {
			return fmt.Errorf("the stock transfer was not initiated by your outlet: %w", ErrAuthorization)
		}
		return nil
	}
}

// CallerAtDestination requires the caller's default outlet to be the
// transfer's destination outlet.
func CallerAtDestination(c Caller, t *model.StockTransfer) guard {
	return func() error {
		if c.OutletID != t.DestinationOutletID {
			return fmt.Errorf("the stock transfer is not addressed to your outlet: %w", ErrAuthorization)
		}
		return nil
	}
}

// ActionAllowed gates the send-or-query transition: only the source
// outlet may send a STARTED transfer, and only the destination outlet
// may query one that is IN_TRANSIT.
func ActionAllowed(c Caller, t *model.StockTransfer, action string) guard {
	return func() error {
		switch action {
		case model.ActionSend:
			if c.OutletID != t.SourceOutletID {
				return fmt.Errorf("user is not in the stock transfer source outlet: %w", ErrAuthorization)
			}
			if t.Status != model.TransferStarted {
				return fmt.Errorf("stock transfer already sent: %w", ErrState)
			}
		case model.ActionQuery:
			if c.OutletID != t.DestinationOutletID {
				return fmt.Errorf("user is not in the stock transfer destination outlet: %w", ErrAuthorization)
			}
			if t.Status != model.TransferInTransit {
				return fmt.Errorf("wait for the sending outlet to send the product batches: %w", ErrState)
			}
		default:
			return fmt.Errorf("invalid action type %q, use SEND or QUERY: %w", action, ErrValidation)
		}
		return nil
	}
}

// HasLines requires the transfer to have at least one transfer batch.
func HasLines(lines []model.TransferBatch) guard {
	return func() error {
		if len(lines) == 0 {
			return fmt.Errorf("stock transfer has no transfer batches: %w", ErrValidation)
		}
		return nil
	}
}

// QuantityPositive requires a transfer line quantity greater than zero.
func QuantityPositive(quantitySent int) guard {
	return func() error {
		if quantitySent <= 0 {
			return fmt.Errorf("stock transfer quantity must be greater than 0: %w", ErrValidation)
		}
		return nil
	}
}

// BatchAtOutlet requires the product batch to be held by the given
// outlet; a transfer may only commit stock its source outlet holds.
func BatchAtOutlet(b *model.ProductBatch, outletID int64) guard {
	return func() error {
		if b.OutletID != outletID {
			return fmt.Errorf("product batch is not held by the source outlet: %w", ErrValidation)
		}
		return nil
	}
}

// ReservationHeadroom requires quantitySent, on top of what unreceived
// transfer lines already reserve on the batch, to fit within the
// batch's current quantity. This prevents over-committing one batch to
// multiple concurrent transfers.
func ReservationHeadroom(b *model.ProductBatch, reserved, quantitySent int) guard {
	return func() error {
		if b.Quantity < reserved+quantitySent {
			return fmt.Errorf("you don't have up to %d item(s) in stock, %d available: %w",
				quantitySent, b.Quantity-reserved, ErrCapacity)
		}
		return nil
	}
}
