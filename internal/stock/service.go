package stock

import (
	"sort"
	"time"

	"github.com/anovak/pharmstock/internal/model"
)

// BatchStatus derives a product batch status from its quantity and
// expiry date. A batch that has passed its expiry date is EXPIRED even
// when stock remains; an empty batch is OUT_OF_STOCK.
func BatchStatus(quantity int, expiry, today time.Time) string {
	if quantity == 0 {
		return model.BatchStatusOutOfStock
	}
	if !expiry.After(today) {
		return model.BatchStatusExpired
	}
	return model.BatchStatusInStock
}

// DestinationBatch constructs the product batch created at the
// destination outlet when a transfer line is approved. The new batch
// carries the transferred quantity and inherits product, supplier,
// batch reference, cost and expiry from the source batch.
func DestinationBatch(src model.ProductBatch, t model.StockTransfer, line model.TransferBatch, today time.Time) model.ProductBatch {
	return model.ProductBatch{
		BusinessID:   t.BusinessID,
		OutletID:     t.DestinationOutletID,
		ProductID:    src.ProductID,
		SupplierID:   src.SupplierID,
		BatchRef:     src.BatchRef,
		DateReceived: today,
		ExpiryDate:   src.ExpiryDate,
		Quantity:     line.QuantitySent,
		Status:       BatchStatus(line.QuantitySent, src.ExpiryDate, today),
		UnitCost:     src.UnitCost,
	}
}

// Aggregate summarizes the lines of one product SKU within a transfer,
// for review before approval.
type Aggregate struct {
	ProductName       string `json:"product_name"`
	ProductSKU        string `json:"product_sku"`
	QuantityInBatches int    `json:"quantity_in_batches"`
	QuantitySent      int    `json:"quantity_sent"`
	Batches           int    `json:"batches"`
}

// AggregateLines groups transfer lines by product SKU. QuantityInBatches
// counts each distinct source batch once even when several lines draw
// from it; QuantitySent and Batches accumulate across all lines of the
// SKU. Results are sorted by SKU so repeated calls return identical
// output.
func AggregateLines(lines []model.TransferBatch) []Aggregate {
	bySKU := make(map[string]*Aggregate)
	seenBatch := make(map[int64]bool)

	for _, line := range lines {
		agg, ok := bySKU[line.ProductSKU]
		if !ok {
			agg = &Aggregate{
				ProductName: line.ProductName,
				ProductSKU:  line.ProductSKU,
			}
			bySKU[line.ProductSKU] = agg
		}
		agg.QuantitySent += line.QuantitySent
		agg.Batches++
		if !seenBatch[line.ProductBatchID] {
			seenBatch[line.ProductBatchID] = true
			agg.QuantityInBatches += line.BatchQuantity
		}
	}

	out := make([]Aggregate, 0, len(bySKU))
	for _, agg := range bySKU {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductSKU < out[j].ProductSKU })
	return out
}
