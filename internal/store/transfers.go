package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/anovak/pharmstock/internal/model"
	"github.com/anovak/pharmstock/internal/stock"
)

// querier is the subset of *sql.DB and *sql.Tx the transfer helpers
// need, so loads can run inside or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateTransfer opens a new stock transfer in STARTED between two
// outlets of a business. The dispatch date is stamped at creation.
func CreateTransfer(ctx context.Context, db *sql.DB, caller stock.Caller, businessID, sourceID, destinationID int64) (*model.StockTransfer, error) {
	business, err := GetBusiness(ctx, db, businessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, fmt.Errorf("business %d: %w", businessID, stock.ErrNotFound)
	}

	source, destination, err := getOutletPair(ctx, db, sourceID, destinationID)
	if err != nil {
		return nil, err
	}

	if err := stock.Run(
		stock.DistinctOutlets(sourceID, destinationID),
		stock.OutletInBusiness(source, businessID),
		stock.OutletInBusiness(destination, businessID),
	); err != nil {
		return nil, err
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO stock_transfers (business_id, source_outlet_id, destination_outlet_id, initiated_by, status)
		 VALUES (?, ?, ?, ?, ?)`,
		businessID, sourceID, destinationID, caller.UserID, model.TransferStarted,
	)
	if err != nil {
		return nil, fmt.Errorf("creating stock transfer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting stock transfer id: %w", err)
	}

	return loadTransfer(ctx, db, id)
}

// EditTransfer changes the destination of a transfer that has not been
// sent yet.
func EditTransfer(ctx context.Context, db *sql.DB, caller stock.Caller, id, destinationID int64) (*model.StockTransfer, error) {
	transfer, err := loadTransfer(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, fmt.Errorf("stock transfer %d: %w", id, stock.ErrNotFound)
	}

	destination, err := GetOutlet(ctx, db, destinationID)
	if err != nil {
		return nil, err
	}
	if destination == nil {
		return nil, fmt.Errorf("outlet %d: %w", destinationID, stock.ErrNotFound)
	}

	if err := stock.Run(
		stock.StatusIs(transfer, model.TransferStarted),
		stock.DistinctOutlets(transfer.SourceOutletID, destinationID),
		stock.CallerInBusiness(caller, transfer),
		stock.OutletInBusiness(destination, transfer.BusinessID),
	); err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx,
		`UPDATE stock_transfers SET destination_outlet_id = ? WHERE id = ?`,
		destinationID, id,
	); err != nil {
		return nil, fmt.Errorf("updating stock transfer: %w", err)
	}

	return loadTransfer(ctx, db, id)
}

// SendOrQueryTransfer moves a transfer between STARTED and IN_TRANSIT.
// SEND decrements every line's source batch and marks the transfer
// IN_TRANSIT; QUERY (dispute by the destination) reverses the
// decrements and reverts to STARTED. The whole transition runs in one
// transaction: if any line cannot be supplied, nothing is mutated and
// the per-line shortfalls are reported together.
func SendOrQueryTransfer(ctx context.Context, db *sql.DB, caller stock.Caller, id int64, action string) (*model.StockTransfer, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	transfer, err := loadTransfer(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, fmt.Errorf("stock transfer %d: %w", id, stock.ErrNotFound)
	}

	if err := stock.Run(
		stock.CallerInBusiness(caller, transfer),
		stock.ActionAllowed(caller, transfer, action),
	); err != nil {
		return nil, err
	}

	lines, err := loadTransferLines(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	var shortfalls []string
	for _, line := range lines {
		if action == model.ActionSend {
			ok, err := decrementBatch(ctx, tx, line.ProductBatchID, line.QuantitySent)
			if err != nil {
				return nil, err
			}
			if !ok {
				shortfalls = append(shortfalls, fmt.Sprintf(
					"can't supply %d of %s, %d available",
					line.QuantitySent, line.ProductName, line.BatchQuantity))
			}
		} else {
			if err := incrementBatch(ctx, tx, line.ProductBatchID, line.QuantitySent); err != nil {
				return nil, err
			}
		}
	}
	if len(shortfalls) > 0 {
		return nil, &stock.InsufficientStockError{Lines: shortfalls}
	}

	status := model.TransferInTransit
	if action == model.ActionQuery {
		status = model.TransferStarted
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE stock_transfers SET status = ? WHERE id = ?`, status, id,
	); err != nil {
		return nil, fmt.Errorf("updating stock transfer status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing stock transfer %s: %w", action, err)
	}

	return loadTransfer(ctx, db, id)
}

// ApproveTransfer completes an IN_TRANSIT transfer at the destination:
// every line creates a new product batch at the destination outlet and
// is marked received, and the transfer becomes RECEIVED. This is the
// terminal transition.
func ApproveTransfer(ctx context.Context, db *sql.DB, caller stock.Caller, id int64) (*model.StockTransfer, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	transfer, err := loadTransfer(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, fmt.Errorf("stock transfer %d: %w", id, stock.ErrNotFound)
	}

	lines, err := loadTransferLines(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := stock.Run(
		stock.StatusIs(transfer, model.TransferInTransit),
		stock.CallerInBusiness(caller, transfer),
		stock.CallerAtDestination(caller, transfer),
		stock.HasLines(lines),
	); err != nil {
		return nil, err
	}

	now := time.Now()
	for _, line := range lines {
		src, err := loadBatchForTransfer(ctx, tx, line.ProductBatchID)
		if err != nil {
			return nil, err
		}

		dest := stock.DestinationBatch(*src, *transfer, line, now)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_batches
			     (business_id, outlet_id, product_id, supplier_id, batch_ref, date_received, expiry_date, quantity, status, unit_cost)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			dest.BusinessID, dest.OutletID, dest.ProductID, dest.SupplierID, dest.BatchRef,
			dest.DateReceived, dest.ExpiryDate, dest.Quantity, dest.Status, dest.UnitCost.String(),
		); err != nil {
			return nil, fmt.Errorf("creating destination batch: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE transfer_batches SET quantity_received = quantity_sent WHERE id = ?`, line.ID,
		); err != nil {
			return nil, fmt.Errorf("marking transfer batch received: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE stock_transfers SET status = ?, received_by = ?, date_received = ? WHERE id = ?`,
		model.TransferReceived, caller.UserID, now, id,
	); err != nil {
		return nil, fmt.Errorf("updating stock transfer status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing stock transfer approval: %w", err)
	}

	return loadTransfer(ctx, db, id)
}

// DeleteTransfer soft-deletes a transfer that has not been sent yet.
// Nothing was decremented before send, so no reversal is needed.
func DeleteTransfer(ctx context.Context, db *sql.DB, caller stock.Caller, id int64) error {
	transfer, err := loadTransfer(ctx, db, id)
	if err != nil {
		return err
	}
	if transfer == nil {
		return fmt.Errorf("stock transfer %d: %w", id, stock.ErrNotFound)
	}

	if err := stock.Run(
		stock.StatusIs(transfer, model.TransferStarted),
		stock.CallerInBusiness(caller, transfer),
		stock.CallerAtSource(caller, transfer),
	); err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx,
		`UPDATE stock_transfers SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id,
	); err != nil {
		return fmt.Errorf("deleting stock transfer: %w", err)
	}
	return nil
}

// AddTransferBatch adds a line to an editable transfer, snapshotting
// unit cost and expiry from the source batch. The reservation check
// counts every unreceived line already drawing on the batch.
func AddTransferBatch(ctx context.Context, db *sql.DB, caller stock.Caller, transferID, productBatchID int64, quantitySent int, comments string) (*model.TransferBatch, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	transfer, err := loadTransfer(ctx, tx, transferID)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, fmt.Errorf("stock transfer %d: %w", transferID, stock.ErrNotFound)
	}

	batch, err := loadBatchForTransfer(ctx, tx, productBatchID)
	if err != nil {
		return nil, err
	}

	reserved, err := reservedQuantity(ctx, tx, productBatchID, 0)
	if err != nil {
		return nil, err
	}

	if err := stock.Run(
		stock.StatusIs(transfer, model.TransferStarted),
		stock.CallerInBusiness(caller, transfer),
		stock.CallerAtSource(caller, transfer),
		stock.BatchAtOutlet(batch, transfer.SourceOutletID),
		stock.QuantityPositive(quantitySent),
		stock.ReservationHeadroom(batch, reserved, quantitySent),
	); err != nil {
		return nil, err
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO transfer_batches
		     (stock_transfer_id, product_id, product_batch_id, unit_cost, quantity_sent, expiry_date, comments)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		transferID, batch.ProductID, productBatchID, batch.UnitCost.String(), quantitySent, batch.ExpiryDate, comments,
	)
	if err != nil {
		return nil, fmt.Errorf("creating transfer batch: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting transfer batch id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transfer batch: %w", err)
	}

	return GetTransferBatch(ctx, db, id)
}

// EditTransferBatch changes a line's quantity and comments, re-running
// the reservation check against the new quantity. The line being edited
// is excluded from the reserved sum.
func EditTransferBatch(ctx context.Context, db *sql.DB, caller stock.Caller, id int64, quantitySent int, comments string) (*model.TransferBatch, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	line, err := loadTransferBatch(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, fmt.Errorf("transfer batch %d: %w", id, stock.ErrNotFound)
	}

	transfer, err := loadTransfer(ctx, tx, line.StockTransferID)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, fmt.Errorf("stock transfer %d: %w", line.StockTransferID, stock.ErrNotFound)
	}

	batch, err := loadBatchForTransfer(ctx, tx, line.ProductBatchID)
	if err != nil {
		return nil, err
	}

	reserved, err := reservedQuantity(ctx, tx, line.ProductBatchID, id)
	if err != nil {
		return nil, err
	}

	if err := stock.Run(
		stock.StatusIs(transfer, model.TransferStarted),
		stock.CallerInBusiness(caller, transfer),
		stock.CallerAtSource(caller, transfer),
		stock.QuantityPositive(quantitySent),
		stock.ReservationHeadroom(batch, reserved, quantitySent),
	); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE transfer_batches SET quantity_sent = ?, comments = ? WHERE id = ?`,
		quantitySent, comments, id,
	); err != nil {
		return nil, fmt.Errorf("updating transfer batch: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transfer batch edit: %w", err)
	}

	return GetTransferBatch(ctx, db, id)
}

// DeleteTransferBatch removes one line from an editable transfer. The
// source batch is untouched because nothing is decremented until send.
func DeleteTransferBatch(ctx context.Context, db *sql.DB, caller stock.Caller, id int64) error {
	line, err := GetTransferBatch(ctx, db, id)
	if err != nil {
		return err
	}
	if line == nil {
		return fmt.Errorf("transfer batch %d: %w", id, stock.ErrNotFound)
	}

	transfer, err := loadTransfer(ctx, db, line.StockTransferID)
	if err != nil {
		return err
	}
	if transfer == nil {
		return fmt.Errorf("stock transfer %d: %w", line.StockTransferID, stock.ErrNotFound)
	}

	if err := stock.Run(
		stock.StatusIs(transfer, model.TransferStarted),
		stock.CallerInBusiness(caller, transfer),
		stock.CallerAtSource(caller, transfer),
	); err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx,
		`DELETE FROM transfer_batches WHERE id = ?`, id,
	); err != nil {
		return fmt.Errorf("deleting transfer batch: %w", err)
	}
	return nil
}

// DeleteTransferBatches removes all lines of the given products from an
// editable transfer. Returns the number of lines removed.
func DeleteTransferBatches(ctx context.Context, db *sql.DB, caller stock.Caller, transferID int64, productIDs []int64) (int64, error) {
	if len(productIDs) == 0 {
		return 0, fmt.Errorf("missing array of product ids: %w", stock.ErrValidation)
	}

	transfer, err := loadTransfer(ctx, db, transferID)
	if err != nil {
		return 0, err
	}
	if transfer == nil {
		return 0, fmt.Errorf("stock transfer %d: %w", transferID, stock.ErrNotFound)
	}

	if err := stock.Run(
		stock.StatusIs(transfer, model.TransferStarted),
		stock.CallerInBusiness(caller, transfer),
		stock.CallerAtSource(caller, transfer),
	); err != nil {
		return 0, err
	}

	query := `DELETE FROM transfer_batches WHERE stock_transfer_id = ? AND product_id IN (?` +
		repeatPlaceholder(len(productIDs)-1) + `)`
	args := make([]any, 0, len(productIDs)+1)
	args = append(args, transferID)
	for _, pid := range productIDs {
		args = append(args, pid)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting transfer batches: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted transfer batches: %w", err)
	}
	return deleted, nil
}

// ListTransfers returns all transfers touching the caller's outlet,
// newest first.
func ListTransfers(ctx context.Context, db *sql.DB, caller stock.Caller) ([]model.StockTransfer, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+transferColumns+`
		 FROM stock_transfers t
		 JOIN outlets so ON so.id = t.source_outlet_id
		 JOIN outlets dst ON dst.id = t.destination_outlet_id
		 WHERE (t.source_outlet_id = ? OR t.destination_outlet_id = ?) AND t.deleted_at IS NULL
		 ORDER BY t.created_at DESC, t.id DESC`,
		caller.OutletID, caller.OutletID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing stock transfers: %w", err)
	}
	defer rows.Close()

	var transfers []model.StockTransfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning stock transfer: %w", err)
		}
		transfers = append(transfers, *t)
	}
	return transfers, rows.Err()
}

// GetTransfer returns a transfer with its lines loaded, after checking
// the caller belongs to the transfer's business.
func GetTransfer(ctx context.Context, db *sql.DB, caller stock.Caller, id int64) (*model.StockTransfer, error) {
	transfer, err := loadTransfer(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, fmt.Errorf("stock transfer %d: %w", id, stock.ErrNotFound)
	}

	if err := stock.Run(stock.CallerInBusiness(caller, transfer)); err != nil {
		return nil, err
	}

	lines, err := loadTransferLines(ctx, db, id)
	if err != nil {
		return nil, err
	}
	transfer.TransferBatches = lines
	return transfer, nil
}

// AggregateTransfer returns the per-SKU summary of a transfer's lines,
// for review before approval.
func AggregateTransfer(ctx context.Context, db *sql.DB, caller stock.Caller, id int64) ([]stock.Aggregate, error) {
	transfer, err := loadTransfer(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, fmt.Errorf("stock transfer %d: %w", id, stock.ErrNotFound)
	}

	if err := stock.Run(stock.CallerInBusiness(caller, transfer)); err != nil {
		return nil, err
	}

	lines, err := loadTransferLines(ctx, db, id)
	if err != nil {
		return nil, err
	}
	return stock.AggregateLines(lines), nil
}

// GetTransferBatch returns one transfer line by ID.
func GetTransferBatch(ctx context.Context, db *sql.DB, id int64) (*model.TransferBatch, error) {
	return loadTransferBatch(ctx, db, id)
}

const transferColumns = `t.id, t.business_id, t.source_outlet_id, t.destination_outlet_id,
	        t.initiated_by, t.received_by, t.status, t.date_dispatched, t.date_received,
	        t.created_at, t.deleted_at, so.name, dst.name`

func scanTransfer(row interface{ Scan(...any) error }) (*model.StockTransfer, error) {
	t := &model.StockTransfer{}
	if err := row.Scan(&t.ID, &t.BusinessID, &t.SourceOutletID, &t.DestinationOutletID,
		&t.InitiatedBy, &t.ReceivedBy, &t.Status, &t.DateDispatched, &t.DateReceived,
		&t.CreatedAt, &t.DeletedAt, &t.SourceName, &t.DestinationName); err != nil {
		return nil, err
	}
	return t, nil
}

func loadTransfer(ctx context.Context, q querier, id int64) (*model.StockTransfer, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+transferColumns+`
		 FROM stock_transfers t
		 JOIN outlets so ON so.id = t.source_outlet_id
		 JOIN outlets dst ON dst.id = t.destination_outlet_id
		 WHERE t.id = ? AND t.deleted_at IS NULL`, id,
	)
	t, err := scanTransfer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting stock transfer: %w", err)
	}
	return t, nil
}

// loadTransferLines returns a transfer's lines joined with product
// name/SKU and the source batch's current quantity.
func loadTransferLines(ctx context.Context, q querier, transferID int64) ([]model.TransferBatch, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT tb.id, tb.stock_transfer_id, tb.product_id, tb.product_batch_id, tb.unit_cost,
		        tb.quantity_sent, tb.quantity_received, tb.expiry_date, tb.comments, tb.created_at,
		        p.name, p.sku, pb.quantity
		 FROM transfer_batches tb
		 JOIN products p ON p.id = tb.product_id
		 JOIN product_batches pb ON pb.id = tb.product_batch_id
		 WHERE tb.stock_transfer_id = ?
		 ORDER BY tb.id`, transferID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing transfer batches: %w", err)
	}
	defer rows.Close()

	var lines []model.TransferBatch
	for rows.Next() {
		line, err := scanTransferBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transfer batch: %w", err)
		}
		lines = append(lines, *line)
	}
	return lines, rows.Err()
}

func loadTransferBatch(ctx context.Context, q querier, id int64) (*model.TransferBatch, error) {
	row := q.QueryRowContext(ctx,
		`SELECT tb.id, tb.stock_transfer_id, tb.product_id, tb.product_batch_id, tb.unit_cost,
		        tb.quantity_sent, tb.quantity_received, tb.expiry_date, tb.comments, tb.created_at,
		        p.name, p.sku, pb.quantity
		 FROM transfer_batches tb
		 JOIN products p ON p.id = tb.product_id
		 JOIN product_batches pb ON pb.id = tb.product_batch_id
		 WHERE tb.id = ?`, id,
	)
	line, err := scanTransferBatch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting transfer batch: %w", err)
	}
	return line, nil
}

func scanTransferBatch(row interface{ Scan(...any) error }) (*model.TransferBatch, error) {
	line := &model.TransferBatch{}
	var unitCost string
	var comments sql.NullString
	if err := row.Scan(&line.ID, &line.StockTransferID, &line.ProductID, &line.ProductBatchID, &unitCost,
		&line.QuantitySent, &line.QuantityReceived, &line.ExpiryDate, &comments, &line.CreatedAt,
		&line.ProductName, &line.ProductSKU, &line.BatchQuantity); err != nil {
		return nil, err
	}
	line.Comments = comments.String
	cost, err := decimal.NewFromString(unitCost)
	if err != nil {
		return nil, fmt.Errorf("parsing unit cost %q: %w", unitCost, err)
	}
	line.UnitCost = cost
	return line, nil
}

// loadBatchForTransfer loads a product batch inside a transfer
// operation, mapping a missing row to the domain not-found error.
func loadBatchForTransfer(ctx context.Context, q querier, id int64) (*model.ProductBatch, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+productBatchColumns+`
		 FROM product_batches pb
		 JOIN products p ON p.id = pb.product_id
		 JOIN outlets o ON o.id = pb.outlet_id
		 WHERE pb.id = ?`, id,
	)
	b, err := scanProductBatch(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product batch %d: %w", id, stock.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting product batch: %w", err)
	}
	return b, nil
}

// reservedQuantity sums quantity_sent over the unreceived transfer
// lines drawing on a batch. Unreceived lines are a hold on the source
// batch; excludeLineID skips the line being edited. Lines on
// soft-deleted transfers no longer hold anything and are skipped.
func reservedQuantity(ctx context.Context, q querier, productBatchID, excludeLineID int64) (int, error) {
	var reserved int
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(tb.quantity_sent), 0)
		 FROM transfer_batches tb
		 JOIN stock_transfers st ON st.id = tb.stock_transfer_id
		 WHERE tb.product_batch_id = ? AND tb.quantity_received = 0
		   AND tb.id <> ? AND st.deleted_at IS NULL`,
		productBatchID, excludeLineID,
	).Scan(&reserved)
	if err != nil {
		return 0, fmt.Errorf("summing reserved quantity: %w", err)
	}
	return reserved, nil
}

// decrementBatch atomically takes quantity off a batch, refusing to go
// negative. Returns false when the batch has less than the requested
// quantity; a concurrent sender that lost the race fails here rather
// than over-committing.
func decrementBatch(ctx context.Context, q querier, id int64, quantity int) (bool, error) {
	result, err := q.ExecContext(ctx,
		`UPDATE product_batches
		 SET quantity = quantity - ?,
		     status = CASE WHEN quantity - ? = 0 THEN 'OUT_OF_STOCK' ELSE status END,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND quantity >= ?`,
		quantity, quantity, id, quantity,
	)
	if err != nil {
		return false, fmt.Errorf("decrementing product batch: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking decrement: %w", err)
	}
	return affected > 0, nil
}

// incrementBatch gives quantity back to a batch on a queried transfer.
func incrementBatch(ctx context.Context, q querier, id int64, quantity int) error {
	_, err := q.ExecContext(ctx,
		`UPDATE product_batches
		 SET quantity = quantity + ?,
		     status = CASE WHEN status = 'OUT_OF_STOCK' AND quantity + ? > 0 THEN 'IN_STOCK' ELSE status END,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		quantity, quantity, id,
	)
	if err != nil {
		return fmt.Errorf("incrementing product batch: %w", err)
	}
	return nil
}

// getOutletPair loads two outlets, mapping missing rows to not-found.
func getOutletPair(ctx context.Context, db *sql.DB, sourceID, destinationID int64) (*model.Outlet, *model.Outlet, error) {
	source, err := GetOutlet(ctx, db, sourceID)
	if err != nil {
		return nil, nil, err
	}
	if source == nil {
		return nil, nil, fmt.Errorf("outlet %d: %w", sourceID, stock.ErrNotFound)
	}

	destination, err := GetOutlet(ctx, db, destinationID)
	if err != nil {
		return nil, nil, err
	}
	if destination == nil {
		return nil, nil, fmt.Errorf("outlet %d: %w", destinationID, stock.ErrNotFound)
	}

	return source, destination, nil
}

// repeatPlaceholder returns n copies of ", ?" for IN clauses.
func repeatPlaceholder(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += ", ?"
	}
	return s
}
