package estimate

import (
	"github.com/arunahq/backend-estimate/internal/pricing"
)

// ItemQuantity is the wire form of one item selection.
type ItemQuantity struct {
	ItemID string `json:"itemId" validate:"required"`
	Qty    int    `json:"qty" validate:"gte=0"`
}

// RoomPayload is the wire form of one room instance.
type RoomPayload struct {
	Quantities []ItemQuantity `json:"quantities" validate:"dive"`
}

// ConfigurationPayload is the wire form of a project configuration. It
// mirrors pricing.ProjectConfiguration but carries validation tags so
// malformed selections are rejected before they reach the engine.
type ConfigurationPayload struct {
	PlanTier          string         `json:"planTier" validate:"required,oneof=basic standard luxe"`
	CarpetArea        float64        `json:"carpetArea" validate:"gte=0"`
	SharedQuantities  []ItemQuantity `json:"sharedQuantities" validate:"dive"`
	KitchenQuantities []ItemQuantity `json:"kitchenQuantities" validate:"dive"`
	BedroomInstances  []RoomPayload  `json:"bedroomInstances" validate:"dive"`
	BathroomInstances []RoomPayload  `json:"bathroomInstances" validate:"dive"`
	CabinInstances    []RoomPayload  `json:"cabinInstances" validate:"dive"`
}

// Contact identifies who requested the estimate.
type Contact struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// PreviewRequest computes a live total without persisting anything.
type PreviewRequest struct {
	Configuration ConfigurationPayload `json:"configuration" validate:"required"`
}

// SubmitRequest persists an immutable estimate record.
type SubmitRequest struct {
	Configuration ConfigurationPayload `json:"configuration" validate:"required"`
	Contact       Contact              `json:"contact" validate:"required"`
}

func toQuantityList(items []ItemQuantity) pricing.QuantityList {
	if len(items) == 0 {
		return nil
	}
	list := make(pricing.QuantityList, 0, len(items))
	for _, it := range items {
		list.Set(it.ItemID, it.Qty)
	}
	return list
}

func toInstances(rooms []RoomPayload) []pricing.RoomInstance {
	if len(rooms) == 0 {
		return nil
	}
	instances := make([]pricing.RoomInstance, 0, len(rooms))
	for _, room := range rooms {
		instances = append(instances, pricing.RoomInstance{Quantities: toQuantityList(room.Quantities)})
	}
	return instances
}

// ToConfiguration converts the validated payload into the engine's model.
func (p ConfigurationPayload) ToConfiguration() pricing.ProjectConfiguration {
	return pricing.ProjectConfiguration{
		PlanTier:          pricing.Tier(p.PlanTier),
		CarpetArea:        p.CarpetArea,
		SharedQuantities:  toQuantityList(p.SharedQuantities),
		KitchenQuantities: toQuantityList(p.KitchenQuantities),
		BedroomInstances:  toInstances(p.BedroomInstances),
		BathroomInstances: toInstances(p.BathroomInstances),
		CabinInstances:    toInstances(p.CabinInstances),
	}
}
