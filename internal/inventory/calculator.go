package inventory

import (
	"sort"

	"petshop/internal/domain"
	"petshop/internal/dto"
)

// ComputeDelta returns the minimal signed adjustments that take a stockroom
// from the quantities implied by oldItems to those implied by newItems.
// Duplicate product ids within one list are summed before diffing; a product
// missing from one side counts as zero. Zero deltas are omitted and the
// result is sorted by product id.
func ComputeDelta(oldItems, newItems []domain.SaleLineItem) []dto.SignedAdjustment {
	oldQty := quantityByProduct(oldItems)
	newQty := quantityByProduct(newItems)

	seen := make(map[int]struct{}, len(oldQty)+len(newQty))
	var adjustments []dto.SignedAdjustment

	appendDelta := func(productID int) {
		if _, ok := seen[productID]; ok {
			return
		}
		seen[productID] = struct{}{}
		delta := newQty[productID] - oldQty[productID]
		if delta != 0 {
			adjustments = append(adjustments, dto.SignedAdjustment{ProductID: productID, Delta: delta})
		}
	}

	for productID := range oldQty {
		appendDelta(productID)
	}
	for productID := range newQty {
		appendDelta(productID)
	}

	sort.Slice(adjustments, func(i, j int) bool {
		return adjustments[i].ProductID < adjustments[j].ProductID
	})

	return adjustments
}

// Debits converts line items to negative adjustments, one per product.
func Debits(items []domain.SaleLineItem) []dto.SignedAdjustment {
	return ComputeDelta(items, nil)
}

// Credits converts line items to positive adjustments, one per product.
func Credits(items []domain.SaleLineItem) []dto.SignedAdjustment {
	return ComputeDelta(nil, items)
}

func quantityByProduct(items []domain.SaleLineItem) map[int]int {
	quantities := make(map[int]int, len(items))
	for _, item := range items {
		quantities[item.ProductID] += item.Quantity
	}
	return quantities
}
