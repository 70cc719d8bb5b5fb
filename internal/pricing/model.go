package pricing

// Tier is one of the three pricing levels chosen once per project and
// applied uniformly to every contributing item.
type Tier string

const (
	TierBasic    Tier = "basic"
	TierStandard Tier = "standard"
	TierLuxe     Tier = "luxe"
)

// Tiers lists every valid tier.
var Tiers = []Tier{TierBasic, TierStandard, TierLuxe}

// Valid reports whether the tier is one of the three known levels.
func (t Tier) Valid() bool {
	return t == TierBasic || t == TierStandard || t == TierLuxe
}

// PricingKind selects how an item's tier price turns into a cost.
type PricingKind string

const (
	// PricingFlat charges the tier price once whenever the recorded
	// quantity is greater than zero. Quantity does not scale the cost.
	PricingFlat PricingKind = "flat"
	// PricingPerUnit charges quantity times the tier price.
	PricingPerUnit PricingKind = "per_unit"
	// PricingPerArea charges carpet area times quantity times the tier
	// price. Quantity acts as a secondary multiplier on the area-scaled
	// price, not an independent count.
	PricingPerArea PricingKind = "per_area"
)

// Valid reports whether the pricing kind is known.
func (p PricingKind) Valid() bool {
	return p == PricingFlat || p == PricingPerUnit || p == PricingPerArea
}

// ProjectType scopes a category to residential or commercial projects.
type ProjectType string

const (
	ProjectResidential ProjectType = "residential"
	ProjectCommercial  ProjectType = "commercial"
	ProjectUnspecified ProjectType = ""
)

// Item is a tenant-authored priced catalog entry.
type Item struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	PricingKind PricingKind      `json:"pricingKind"`
	PriceByTier map[Tier]float64 `json:"priceByTier"`
	Enabled     bool             `json:"enabled"`
}

// Price returns the item's price at the given tier.
func (it Item) Price(t Tier) float64 {
	return it.PriceByTier[t]
}

// Category groups items under a tenant-authored identity. Kind, when
// assigned at authoring time, fixes the classification outcome and
// skips identity matching entirely.
type Category struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	ProjectType ProjectType `json:"projectType,omitempty"`
	Kind        RoomKind    `json:"kind,omitempty"`
	Items       []Item      `json:"items"`
}

// FindItem returns the first item with the given id, if any.
func (c Category) FindItem(id string) (Item, bool) {
	for _, it := range c.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Catalog is the tenant's full authored set of categories. Authoring
// order is preserved and is the primary sort key of estimate output.
type Catalog struct {
	Categories []Category `json:"categories"`
}

// Quantity pairs an item id with its recorded quantity.
type Quantity struct {
	ItemID string `json:"itemId"`
	Qty    int    `json:"qty"`
}

// QuantityList is an insertion-order-preserving association of item ids
// to quantities. Ordering is part of the contract: breakdown rows within
// one quantity source follow the list's insertion order, so output is
// reproducible run-to-run for identical inputs.
type QuantityList []Quantity

// Get returns the recorded quantity for the item, zero when absent.
func (l QuantityList) Get(itemID string) int {
	for _, q := range l {
		if q.ItemID == itemID {
			return q.Qty
		}
	}
	return 0
}

// Set records a quantity, updating in place when the item is already
// present and appending otherwise. Negative quantities clamp to zero.
func (l *QuantityList) Set(itemID string, qty int) {
	if qty < 0 {
		qty = 0
	}
	for i, q := range *l {
		if q.ItemID == itemID {
			(*l)[i].Qty = qty
			return
		}
	}
	*l = append(*l, Quantity{ItemID: itemID, Qty: qty})
}

// RoomInstance holds the item selections of one concrete occurrence of a
// countable room kind, e.g. "Bedroom 2".
type RoomInstance struct {
	Quantities QuantityList `json:"quantities"`
}

// ProjectConfiguration is the customer's full selection set. It is a
// plain value: the engine never mutates it and callers hand it over as
// an internally consistent snapshot.
type ProjectConfiguration struct {
	PlanTier Tier `json:"planTier"`
	// CarpetArea is the project's carpet area. Non-positive values are
	// treated as zero by per-area pricing; enforcing a positive area
	// before final submission is the caller's job.
	CarpetArea float64 `json:"carpetArea"`
	// SharedQuantities backs both the living-area kind and every
	// generic category.
	SharedQuantities  QuantityList   `json:"sharedQuantities"`
	KitchenQuantities QuantityList   `json:"kitchenQuantities"`
	BedroomInstances  []RoomInstance `json:"bedroomInstances"`
	BathroomInstances []RoomInstance `json:"bathroomInstances"`
	CabinInstances    []RoomInstance `json:"cabinInstances"`
}

// ResizeBedrooms grows or shrinks the bedroom list to n instances.
func (c *ProjectConfiguration) ResizeBedrooms(n int) {
	c.BedroomInstances = resizeInstances(c.BedroomInstances, n)
}

// ResizeBathrooms grows or shrinks the bathroom list to n instances.
func (c *ProjectConfiguration) ResizeBathrooms(n int) {
	c.BathroomInstances = resizeInstances(c.BathroomInstances, n)
}

// ResizeCabins grows or shrinks the cabin list to n instances.
func (c *ProjectConfiguration) ResizeCabins(n int) {
	c.CabinInstances = resizeInstances(c.CabinInstances, n)
}

// resizeInstances appends default-empty instances on growth and
// truncates from the tail on shrink. Surviving instances keep their
// selections untouched: instance k never changes when k+1..n do.
func resizeInstances(list []RoomInstance, n int) []RoomInstance {
	if n < 0 {
		n = 0
	}
	for len(list) < n {
		list = append(list, RoomInstance{})
	}
	if len(list) > n {
		list = list[:n]
	}
	return list
}

// BreakdownRow is one priced line of an estimate. Rows are plain
// JSON-serialisable data owned by whoever persists or renders them.
type BreakdownRow struct {
	CategoryLabel string  `json:"categoryLabel"`
	ItemName      string  `json:"itemName"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unitPrice"`
	LineTotal     float64 `json:"lineTotal"`
}

// Estimate is the output of one Compute call. Total always equals the
// exact sum of every row's LineTotal.
type Estimate struct {
	Total     float64        `json:"total"`
	Breakdown []BreakdownRow `json:"breakdown"`
}
