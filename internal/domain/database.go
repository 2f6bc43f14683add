package domain

// SchemaVersion tags the normalized database and the persisted envelope
const SchemaVersion = 1

// ItemTypeRecord is the flat form of either item type group
type ItemTypeRecord struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Kind      ItemKind `json:"kind"`
	Inspected bool     `json:"inspected"`
}

// RatingScaleRecord keeps stored bounds optional so older rows can be
// default-filled on reconstruction
type RatingScaleRecord struct {
	Min *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// Scale fills absent bounds from the global defaults
func (r RatingScaleRecord) Scale() RatingScale {
	scale := DefaultRatingScale()
	if r.Min != nil {
		scale.Min = *r.Min
	}
	if r.Max != nil {
		scale.Max = *r.Max
	}
	return scale
}

// ComponentRecord is a component annotated with its owning item type
type ComponentRecord struct {
	ID                           string            `json:"id"`
	ItemTypeID                   string            `json:"itemTypeId"`
	Name                         string            `json:"name"`
	RatingScale                  RatingScaleRecord `json:"ratingScale"`
	WeightPercent                float64           `json:"weightPercent"`
	AllowNotInspectedUsePrevious bool              `json:"allowNotInspectedUsePrevious"`
}

// CollectionRecord references its items by id, in display order
type CollectionRecord struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	ItemIDs []string `json:"itemIds"`
}

// ItemRecord is the flat form of an item
type ItemRecord struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	TypeID             string   `json:"typeId"`
	Station            *float64 `json:"station,omitempty"`
	StartStationItemID string   `json:"startStationItemId,omitempty"`
	EndStationItemID   string   `json:"endStationItemId,omitempty"`
}

// Database is the canonical persisted form. Ordering lives in the id lists;
// the maps only resolve ids to records.
type Database struct {
	SchemaVersion           int                         `json:"schemaVersion"`
	InspectedItemTypeIDs    []string                    `json:"inspectedItemTypeIds"`
	NonInspectedItemTypeIDs []string                    `json:"nonInspectedItemTypeIds"`
	ItemTypes               map[string]ItemTypeRecord   `json:"itemTypes"`
	ComponentIDsByItemType  map[string][]string         `json:"componentIdsByItemType"`
	Components              map[string]ComponentRecord  `json:"components"`
	CollectionIDs           []string                    `json:"collectionIds"`
	Collections             map[string]CollectionRecord `json:"collections"`
	Items                   map[string]ItemRecord       `json:"items"`
}

// NewDatabase creates an empty database tagged with the current schema
func NewDatabase() *Database {
	return &Database{
		SchemaVersion:           SchemaVersion,
		InspectedItemTypeIDs:    []string{},
		NonInspectedItemTypeIDs: []string{},
		ItemTypes:               make(map[string]ItemTypeRecord),
		ComponentIDsByItemType:  make(map[string][]string),
		Components:              make(map[string]ComponentRecord),
		CollectionIDs:           []string{},
		Collections:             make(map[string]CollectionRecord),
		Items:                   make(map[string]ItemRecord),
	}
}
