package pricing

import (
	"fmt"
	"math"
)

// Cost evaluates one (item, quantity) pair at the given tier and carpet
// area. It is independent of every other item and never negative for
// nonnegative inputs. Disabled items and zero quantities are filtered
// upstream by Compute, so Cost carries no branch for them.
func Cost(it Item, qty int, carpetArea float64, tier Tier) float64 {
	price := it.Price(tier)
	switch it.PricingKind {
	case PricingFlat:
		// Quantity is a presence toggle only: the item contributes its
		// tier price once.
		return price
	case PricingPerUnit:
		return float64(qty) * price
	case PricingPerArea:
		return sanitizeArea(carpetArea) * float64(qty) * price
	}
	return 0
}

// sanitizeArea treats non-positive and non-numeric carpet areas as zero.
func sanitizeArea(area float64) float64 {
	if math.IsNaN(area) || area < 0 {
		return 0
	}
	return area
}

// Compute turns a catalog and a configuration into a total and an
// ordered line-item breakdown. It is a pure function: no I/O, no state
// between calls, safe to invoke concurrently and repeatedly on every
// caller-side change. An absent or empty catalog yields a zero estimate
// with an empty breakdown, which is a legitimate not-yet-loaded state
// rather than an error.
//
// Row order is catalog authoring order, then instance index for the
// countable kinds, then the quantity list's insertion order.
func Compute(catalog Catalog, cfg ProjectConfiguration) Estimate {
	est := Estimate{Breakdown: []BreakdownRow{}}
	for _, category := range catalog.Categories {
		kind := Classify(category)
		switch kind {
		case KindLivingArea, KindGeneric:
			// Generic categories draw from the same shared bucket as
			// the living area. Two categories with different identities
			// can therefore charge the same item ids; that conflation
			// is part of the contract.
			est.accumulate(category, categoryLabel(kind, category), cfg.SharedQuantities, cfg)
		case KindKitchen:
			est.accumulate(category, categoryLabel(kind, category), cfg.KitchenQuantities, cfg)
		case KindBedroom:
			est.accumulateInstances(category, kind, cfg.BedroomInstances, cfg)
		case KindBathroom:
			est.accumulateInstances(category, kind, cfg.BathroomInstances, cfg)
		case KindCabin:
			est.accumulateInstances(category, kind, cfg.CabinInstances, cfg)
		}
	}
	return est
}

func categoryLabel(kind RoomKind, category Category) string {
	if kind == KindGeneric {
		return category.Name
	}
	return kind.DisplayName()
}

// accumulate walks one quantity source against one category, appending a
// row per contributing item and adding its cost to the running total.
// Item ids recorded in the source but missing from the category, or
// present but disabled, are skipped silently: no row, no error.
func (e *Estimate) accumulate(category Category, label string, quantities QuantityList, cfg ProjectConfiguration) {
	for _, q := range quantities {
		if q.Qty <= 0 {
			continue
		}
		item, ok := category.FindItem(q.ItemID)
		if !ok || !item.Enabled {
			continue
		}
		cost := Cost(item, q.Qty, cfg.CarpetArea, cfg.PlanTier)
		e.Breakdown = append(e.Breakdown, BreakdownRow{
			CategoryLabel: label,
			ItemName:      item.Name,
			Quantity:      q.Qty,
			UnitPrice:     item.Price(cfg.PlanTier),
			LineTotal:     cost,
		})
		e.Total += cost
	}
}

func (e *Estimate) accumulateInstances(category Category, kind RoomKind, instances []RoomInstance, cfg ProjectConfiguration) {
	for i, instance := range instances {
		label := fmt.Sprintf("%s %d", kind.DisplayName(), i+1)
		e.accumulate(category, label, instance.Quantities, cfg)
	}
}
