package pricing

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RoomKind identifies the canonical space a catalog category belongs to.
// It determines which quantity source of a ProjectConfiguration the
// category's items are charged against.
type RoomKind int

const (
	// KindUnspecified means the category has not been classified at
	// authoring time and Classify falls back to identity matching.
	KindUnspecified RoomKind = iota
	KindLivingArea
	KindKitchen
	KindBedroom
	KindBathroom
	KindCabin
	// KindGeneric covers every category that matches none of the
	// well-known kinds. Generic categories share the living-area
	// quantity bucket.
	KindGeneric
)

var kindNames = map[RoomKind]string{
	KindUnspecified: "unspecified",
	KindLivingArea:  "living_area",
	KindKitchen:     "kitchen",
	KindBedroom:     "bedroom",
	KindBathroom:    "bathroom",
	KindCabin:       "cabin",
	KindGeneric:     "generic",
}

var kindDisplayNames = map[RoomKind]string{
	KindLivingArea: "Living Area",
	KindKitchen:    "Kitchen",
	KindBedroom:    "Bedroom",
	KindBathroom:   "Bathroom",
	KindCabin:      "Cabin",
}

// classification priority is fixed: the first matching kind wins.
var classifyOrder = []RoomKind{KindLivingArea, KindKitchen, KindBedroom, KindBathroom, KindCabin}

// String returns the canonical token for the kind.
func (k RoomKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unspecified"
}

// DisplayName returns the human readable label used in breakdown rows.
func (k RoomKind) DisplayName() string {
	if name, ok := kindDisplayNames[k]; ok {
		return name
	}
	return ""
}

// Countable reports whether the kind holds repeated room instances.
func (k RoomKind) Countable() bool {
	return k == KindBedroom || k == KindBathroom || k == KindCabin
}

// ParseRoomKind resolves a canonical token to its kind. The empty string
// parses to KindUnspecified so authored payloads may simply omit it.
func ParseRoomKind(token string) (RoomKind, error) {
	normalized := strings.ReplaceAll(normalizeID(token), " ", "_")
	if normalized == "" {
		return KindUnspecified, nil
	}
	for kind, name := range kindNames {
		if name == normalized {
			return kind, nil
		}
	}
	return KindUnspecified, fmt.Errorf("unknown room kind %q", token)
}

// MarshalJSON encodes the kind as its canonical token.
func (k RoomKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a canonical token, rejecting unknown values.
func (k *RoomKind) UnmarshalJSON(data []byte) error {
	var token string
	if err := json.Unmarshal(data, &token); err != nil {
		return err
	}
	kind, err := ParseRoomKind(token)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// Classify assigns exactly one RoomKind to the category. A kind assigned
// at authoring time wins outright; otherwise the category's id and name
// are compared, after normalisation, against each canonical kind in
// priority order. Categories matching nothing become KindGeneric.
// Classify is total: it never returns KindUnspecified.
func Classify(c Category) RoomKind {
	if c.Kind != KindUnspecified {
		return c.Kind
	}
	id := normalizeID(c.ID)
	name := strings.ToLower(strings.TrimSpace(c.Name))
	for _, kind := range classifyOrder {
		phrase := strings.ReplaceAll(kind.String(), "_", " ")
		if id == phrase || name == phrase {
			return kind
		}
	}
	return KindGeneric
}

// normalizeID lower-cases, trims, and treats underscores as spaces so
// tenant-authored ids like "Living_Area" compare equal to the display
// phrase "living area". Runs of whitespace collapse to a single space.
// Display names are matched verbatim after lower-casing and trimming; an
// underscored name is not a canonical phrase.
func normalizeID(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}
