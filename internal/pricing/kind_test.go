package pricing_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arunahq/backend-estimate/internal/pricing"
)

func TestClassifyCanonicalTokens(t *testing.T) {
	cases := []struct {
		name     string
		category pricing.Category
		want     pricing.RoomKind
	}{
		{"id token", pricing.Category{ID: "living_area"}, pricing.KindLivingArea},
		{"mixed case underscore id", pricing.Category{ID: "Living_Area"}, pricing.KindLivingArea},
		{"display name", pricing.Category{ID: "custom-1", Name: "living area"}, pricing.KindLivingArea},
		{"name with padding", pricing.Category{ID: "custom-2", Name: "  Living Area  "}, pricing.KindLivingArea},
		{"kitchen id", pricing.Category{ID: "kitchen"}, pricing.KindKitchen},
		{"kitchen name", pricing.Category{ID: "cat-7", Name: "Kitchen"}, pricing.KindKitchen},
		{"bedroom", pricing.Category{ID: "BEDROOM"}, pricing.KindBedroom},
		{"bathroom", pricing.Category{ID: "bath_room_x", Name: "Bathroom"}, pricing.KindBathroom},
		{"cabin", pricing.Category{ID: "cabin"}, pricing.KindCabin},
		{"unmatched becomes generic", pricing.Category{ID: "false-ceiling", Name: "False Ceiling"}, pricing.KindGeneric},
		{"empty identity is generic", pricing.Category{}, pricing.KindGeneric},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, pricing.Classify(tc.category))
		})
	}
}

func TestClassifyAuthoredKindWins(t *testing.T) {
	// A pre-assigned kind skips identity matching even when the identity
	// would classify differently.
	c := pricing.Category{ID: "kitchen", Name: "Kitchen", Kind: pricing.KindBedroom}
	require.Equal(t, pricing.KindBedroom, pricing.Classify(c))
}

func TestClassifyEquivalentIdentities(t *testing.T) {
	// Scenario D: underscored mixed-case id classifies identically to the
	// exact display phrase.
	byID := pricing.Category{ID: "Living_Area"}
	byName := pricing.Category{ID: "whatever", Name: "living area"}
	require.Equal(t, pricing.Classify(byID), pricing.Classify(byName))
}

func TestClassifyNameMatchesVerbatimOnly(t *testing.T) {
	// Underscore folding applies to ids, not display names. A name that
	// only matches a phrase after underscore substitution stays generic.
	c := pricing.Category{ID: "zone-7", Name: "Living_Area"}
	require.Equal(t, pricing.KindGeneric, pricing.Classify(c))

	// The same text as an id still classifies.
	require.Equal(t, pricing.KindLivingArea, pricing.Classify(pricing.Category{ID: "Living_Area"}))
}

func TestKindDisplayNames(t *testing.T) {
	require.Equal(t, "Living Area", pricing.KindLivingArea.DisplayName())
	require.Equal(t, "Bedroom", pricing.KindBedroom.DisplayName())
	require.Empty(t, pricing.KindGeneric.DisplayName())
}

func TestKindCountable(t *testing.T) {
	require.True(t, pricing.KindBedroom.Countable())
	require.True(t, pricing.KindBathroom.Countable())
	require.True(t, pricing.KindCabin.Countable())
	require.False(t, pricing.KindLivingArea.Countable())
	require.False(t, pricing.KindKitchen.Countable())
	require.False(t, pricing.KindGeneric.Countable())
}

func TestRoomKindJSONTokens(t *testing.T) {
	var cat pricing.Category
	require.NoError(t, json.Unmarshal([]byte(`{"id":"custom","name":"Custom","kind":"bedroom"}`), &cat))
	require.Equal(t, pricing.KindBedroom, cat.Kind)

	data, err := json.Marshal(cat)
	require.NoError(t, err)
	require.Contains(t, string(data), `"kind":"bedroom"`)

	require.Error(t, json.Unmarshal([]byte(`{"kind":"ballroom"}`), &cat))

	kind, err := pricing.ParseRoomKind("")
	require.NoError(t, err)
	require.Equal(t, pricing.KindUnspecified, kind)
}
