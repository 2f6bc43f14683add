package domain

const (
	MinRating    = 0
	MaxRating    = 10
	MaxItemTypes = 10
)

// ItemKind distinguishes items located at a single station from items
// spanning two point items
type ItemKind string

const (
	ItemKindPoint  ItemKind = "point"
	ItemKindLinear ItemKind = "linear"
)

// Valid reports whether k is a known kind
func (k ItemKind) Valid() bool {
	return k == ItemKindPoint || k == ItemKindLinear
}

// ParseItemKind returns the kind for s, defaulting to point
func ParseItemKind(s string) ItemKind {
	if ItemKind(s) == ItemKindLinear {
		return ItemKindLinear
	}
	return ItemKindPoint
}

// RatingScale bounds the ratings a component accepts
type RatingScale struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// DefaultRatingScale returns the global rating bounds
func DefaultRatingScale() RatingScale {
	return RatingScale{Min: MinRating, Max: MaxRating}
}

// Component is a rated sub-criterion of an inspected item type
type Component struct {
	ID                           string      `json:"id" yaml:"id"`
	Name                         string      `json:"name" yaml:"name"`
	RatingScale                  RatingScale `json:"ratingScale" yaml:"ratingScale"`
	WeightPercent                float64     `json:"weightPercent" yaml:"weightPercent"`
	AllowNotInspectedUsePrevious bool        `json:"allowNotInspectedUsePrevious" yaml:"allowNotInspectedUsePrevious"`
}

// ItemType is an inspected item type with its ordered components
type ItemType struct {
	ID         string      `json:"id" yaml:"id"`
	Name       string      `json:"name" yaml:"name"`
	Kind       ItemKind    `json:"kind" yaml:"kind"`
	Components []Component `json:"components" yaml:"components"`
}

// NonInspectedItemType is a reference or navigation type without ratings
type NonInspectedItemType struct {
	ID   string   `json:"id" yaml:"id"`
	Name string   `json:"name" yaml:"name"`
	Kind ItemKind `json:"kind" yaml:"kind"`
}

// Item is a member of a collection. Point items use Station, linear items
// use the start/end references. An empty reference means unset.
type Item struct {
	ID                 string   `json:"id" yaml:"id"`
	Name               string   `json:"name" yaml:"name"`
	TypeID             string   `json:"typeId" yaml:"typeId"`
	Station            *float64 `json:"station,omitempty" yaml:"station,omitempty"`
	StartStationItemID string   `json:"startStationItemId,omitempty" yaml:"startStationItemId,omitempty"`
	EndStationItemID   string   `json:"endStationItemId,omitempty" yaml:"endStationItemId,omitempty"`
}

// Collection is an independent network of items, e.g. one canal
type Collection struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Items []Item `json:"items" yaml:"items"`
}

// FindItem returns a pointer to the item with the given id
func (c *Collection) FindItem(id string) *Item {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return &c.Items[i]
		}
	}
	return nil
}

// Settings is the nested tree the UI edits. It is rebuilt from the
// normalized database on every load.
type Settings struct {
	InspectedItemTypes    []ItemType             `json:"inspectedItemTypes" yaml:"inspectedItemTypes"`
	NonInspectedItemTypes []NonInspectedItemType `json:"nonInspectedItemTypes" yaml:"nonInspectedItemTypes"`
	Collections           []Collection           `json:"collections" yaml:"collections"`
}

// DefaultSettings returns an empty settings tree
func DefaultSettings() Settings {
	return Settings{
		InspectedItemTypes:    []ItemType{},
		NonInspectedItemTypes: []NonInspectedItemType{},
		Collections:           []Collection{},
	}
}

// ItemTypeSummary is the kind-level view shared by both item type groups
type ItemTypeSummary struct {
	ID        string
	Name      string
	Kind      ItemKind
	Inspected bool
}

// ItemTypeSummaries lists inspected types first, then non-inspected
func (s *Settings) ItemTypeSummaries() []ItemTypeSummary {
	summaries := make([]ItemTypeSummary, 0, len(s.InspectedItemTypes)+len(s.NonInspectedItemTypes))
	for _, t := range s.InspectedItemTypes {
		summaries = append(summaries, ItemTypeSummary{ID: t.ID, Name: t.Name, Kind: t.Kind, Inspected: true})
	}
	for _, t := range s.NonInspectedItemTypes {
		summaries = append(summaries, ItemTypeSummary{ID: t.ID, Name: t.Name, Kind: t.Kind})
	}
	return summaries
}

// ItemKinds maps item type id to kind. Summaries are walked in order, so a
// non-inspected type overrides an inspected type sharing its id.
func (s *Settings) ItemKinds() map[string]ItemKind {
	kinds := make(map[string]ItemKind, len(s.InspectedItemTypes)+len(s.NonInspectedItemTypes))
	for _, summary := range s.ItemTypeSummaries() {
		kinds[summary.ID] = summary.Kind
	}
	return kinds
}

// ItemTypeCount returns the size of the inspected or non-inspected group
func (s *Settings) ItemTypeCount(inspected bool) int {
	if inspected {
		return len(s.InspectedItemTypes)
	}
	return len(s.NonInspectedItemTypes)
}

// CanAddItemType reports whether the group is below MaxItemTypes.
// This is a UI affordance only; validation does not enforce it.
func (s *Settings) CanAddItemType(inspected bool) bool {
	return s.ItemTypeCount(inspected) < MaxItemTypes
}

// FindItemType returns the inspected item type with the given id
func (s *Settings) FindItemType(id string) *ItemType {
	for i := range s.InspectedItemTypes {
		if s.InspectedItemTypes[i].ID == id {
			return &s.InspectedItemTypes[i]
		}
	}
	return nil
}

// FindNonInspectedItemType returns the non-inspected item type with the given id
func (s *Settings) FindNonInspectedItemType(id string) *NonInspectedItemType {
	for i := range s.NonInspectedItemTypes {
		if s.NonInspectedItemTypes[i].ID == id {
			return &s.NonInspectedItemTypes[i]
		}
	}
	return nil
}

// FindCollection returns the collection with the given id
func (s *Settings) FindCollection(id string) *Collection {
	for i := range s.Collections {
		if s.Collections[i].ID == id {
			return &s.Collections[i]
		}
	}
	return nil
}

// FindComponent returns the component and its owning item type
func (s *Settings) FindComponent(id string) (*ItemType, *Component) {
	for i := range s.InspectedItemTypes {
		t := &s.InspectedItemTypes[i]
		for j := range t.Components {
			if t.Components[j].ID == id {
				return t, &t.Components[j]
			}
		}
	}
	return nil, nil
}

// FindItemAnywhere returns the item and the collection holding it
func (s *Settings) FindItemAnywhere(id string) (*Collection, *Item) {
	for i := range s.Collections {
		c := &s.Collections[i]
		if item := c.FindItem(id); item != nil {
			return c, item
		}
	}
	return nil, nil
}

// Clone returns a deep copy of the settings tree
func (s Settings) Clone() Settings {
	out := Settings{
		InspectedItemTypes:    make([]ItemType, len(s.InspectedItemTypes)),
		NonInspectedItemTypes: make([]NonInspectedItemType, len(s.NonInspectedItemTypes)),
		Collections:           make([]Collection, len(s.Collections)),
	}
	for i, t := range s.InspectedItemTypes {
		t.Components = append([]Component{}, t.Components...)
		out.InspectedItemTypes[i] = t
	}
	copy(out.NonInspectedItemTypes, s.NonInspectedItemTypes)
	for i, c := range s.Collections {
		items := make([]Item, len(c.Items))
		for j, item := range c.Items {
			if item.Station != nil {
				station := *item.Station
				item.Station = &station
			}
			items[j] = item
		}
		c.Items = items
		out.Collections[i] = c
	}
	return out
}
