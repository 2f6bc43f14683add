package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspectnet/internal/domain"
)

func station(v float64) *float64 { return &v }

func sampleSettings() domain.Settings {
	return domain.Settings{
		InspectedItemTypes: []domain.ItemType{
			{
				ID:   "lock",
				Name: "Lock",
				Kind: domain.ItemKindPoint,
				Components: []domain.Component{
					{ID: "gate", Name: "Gate", RatingScale: domain.RatingScale{Min: 0, Max: 10}, WeightPercent: 60},
					{ID: "wall", Name: "Wall", RatingScale: domain.RatingScale{Min: 1, Max: 5}, WeightPercent: 40, AllowNotInspectedUsePrevious: true},
				},
			},
			{
				ID:         "reach",
				Name:       "Reach",
				Kind:       domain.ItemKindLinear,
				Components: []domain.Component{},
			},
		},
		NonInspectedItemTypes: []domain.NonInspectedItemType{
			{ID: "marker", Name: "Marker", Kind: domain.ItemKindPoint},
		},
		Collections: []domain.Collection{
			{
				ID:   "canal",
				Name: "Main Canal",
				Items: []domain.Item{
					{ID: "a", Name: "Upper Lock", TypeID: "lock", Station: station(0)},
					{ID: "b", Name: "Lower Lock", TypeID: "lock", Station: station(1250.5)},
					{ID: "ab", Name: "Reach 1", TypeID: "reach", StartStationItemID: "a", EndStationItemID: "b"},
				},
			},
			{ID: "empty", Name: "Spur", Items: []domain.Item{}},
		},
	}
}

func TestToDatabase(t *testing.T) {
	db := ToDatabase(sampleSettings())

	assert.Equal(t, domain.SchemaVersion, db.SchemaVersion)
	assert.Equal(t, []string{"lock", "reach"}, db.InspectedItemTypeIDs)
	assert.Equal(t, []string{"marker"}, db.NonInspectedItemTypeIDs)
	assert.Equal(t, []string{"canal", "empty"}, db.CollectionIDs)

	assert.True(t, db.ItemTypes["lock"].Inspected)
	assert.False(t, db.ItemTypes["marker"].Inspected)

	assert.Equal(t, []string{"gate", "wall"}, db.ComponentIDsByItemType["lock"])
	require.Contains(t, db.ComponentIDsByItemType, "reach", "inspected types always get a component index entry")
	assert.Empty(t, db.ComponentIDsByItemType["reach"])

	assert.Equal(t, "lock", db.Components["wall"].ItemTypeID)
	assert.Equal(t, []string{"a", "b", "ab"}, db.Collections["canal"].ItemIDs)
	assert.Equal(t, "b", db.Items["ab"].EndStationItemID)
	require.NotNil(t, db.Items["b"].Station)
	assert.Equal(t, 1250.5, *db.Items["b"].Station)
}

func TestToDatabase_Empty(t *testing.T) {
	db := ToDatabase(domain.DefaultSettings())

	assert.Equal(t, domain.NewDatabase(), db)
}

func TestRoundTrip(t *testing.T) {
	settings := sampleSettings()

	got := ToSettings(ToDatabase(settings))

	assert.Equal(t, settings, got)
}

func TestRoundTrip_ThroughJSON(t *testing.T) {
	settings := sampleSettings()

	data, err := json.Marshal(ToDatabase(settings))
	require.NoError(t, err)

	var db domain.Database
	require.NoError(t, json.Unmarshal(data, &db))

	assert.Equal(t, settings, ToSettings(&db))
}

func TestToDatabase_DoesNotAliasStations(t *testing.T) {
	settings := sampleSettings()
	db := ToDatabase(settings)

	*settings.Collections[0].Items[1].Station = 7

	assert.Equal(t, 1250.5, *db.Items["b"].Station)
}

func TestToSettings_Nil(t *testing.T) {
	assert.Equal(t, domain.DefaultSettings(), ToSettings(nil))
}

func TestToSettings_DropsComponentWithMismatchedOwner(t *testing.T) {
	db := ToDatabase(sampleSettings())
	wall := db.Components["wall"]
	wall.ItemTypeID = "reach"
	db.Components["wall"] = wall

	settings := ToSettings(db)

	require.Len(t, settings.InspectedItemTypes, 2)
	components := settings.InspectedItemTypes[0].Components
	require.Len(t, components, 1)
	assert.Equal(t, "gate", components[0].ID)
	assert.Empty(t, settings.InspectedItemTypes[1].Components, "component is not adopted by the type it claims")
}

func TestToSettings_DropsDanglingReferences(t *testing.T) {
	db := ToDatabase(sampleSettings())
	db.InspectedItemTypeIDs = append(db.InspectedItemTypeIDs, "ghost-type")
	db.ComponentIDsByItemType["lock"] = append(db.ComponentIDsByItemType["lock"], "ghost-component")
	db.CollectionIDs = append([]string{"ghost-collection"}, db.CollectionIDs...)
	canal := db.Collections["canal"]
	canal.ItemIDs = append(canal.ItemIDs, "ghost-item")
	db.Collections["canal"] = canal

	assert.Equal(t, sampleSettings(), ToSettings(db))
}

func TestToSettings_DropsTypesListedInWrongGroup(t *testing.T) {
	db := ToDatabase(sampleSettings())
	db.InspectedItemTypeIDs = append(db.InspectedItemTypeIDs, "marker")
	db.NonInspectedItemTypeIDs = append(db.NonInspectedItemTypeIDs, "lock")

	settings := ToSettings(db)

	assert.Len(t, settings.InspectedItemTypes, 2)
	assert.Len(t, settings.NonInspectedItemTypes, 1)
}

func TestToSettings_FillsRatingDefaults(t *testing.T) {
	db := domain.NewDatabase()
	db.InspectedItemTypeIDs = []string{"lock"}
	db.ItemTypes["lock"] = domain.ItemTypeRecord{ID: "lock", Name: "Lock", Kind: domain.ItemKindPoint, Inspected: true}
	db.ComponentIDsByItemType["lock"] = []string{"gate", "wall"}
	maxOnly := 7.0
	db.Components["gate"] = domain.ComponentRecord{ID: "gate", ItemTypeID: "lock", Name: "Gate"}
	db.Components["wall"] = domain.ComponentRecord{ID: "wall", ItemTypeID: "lock", Name: "Wall", RatingScale: domain.RatingScaleRecord{Max: &maxOnly}}

	settings := ToSettings(db)

	require.Len(t, settings.InspectedItemTypes, 1)
	components := settings.InspectedItemTypes[0].Components
	require.Len(t, components, 2)
	assert.Equal(t, domain.RatingScale{Min: domain.MinRating, Max: domain.MaxRating}, components[0].RatingScale)
	assert.Equal(t, domain.RatingScale{Min: domain.MinRating, Max: 7}, components[1].RatingScale)
}

func TestToSettings_MissingComponentIndex(t *testing.T) {
	db := ToDatabase(sampleSettings())
	delete(db.ComponentIDsByItemType, "lock")

	settings := ToSettings(db)

	require.Len(t, settings.InspectedItemTypes, 2)
	assert.NotNil(t, settings.InspectedItemTypes[0].Components)
	assert.Empty(t, settings.InspectedItemTypes[0].Components)
}

func TestResolveAll(t *testing.T) {
	lookup := map[string]int{"one": 1, "three": 3}

	got := resolveAll([]string{"three", "two", "one", "three"}, func(id string) (int, bool) {
		v, ok := lookup[id]
		return v, ok
	})

	assert.Equal(t, []int{3, 1, 3}, got)
}
