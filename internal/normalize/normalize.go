// Package normalize converts between the nested settings tree and the flat,
// id-indexed database that gets persisted.
//
// ToDatabase is pure reshaping and always succeeds. ToSettings is its
// inverse and tolerates partial corruption: ids that do not resolve, or
// records whose owner disagrees with the list they are reached from, are
// dropped rather than reported.
package normalize

import (
	"inspectnet/internal/domain"
)

// ToDatabase flattens settings into a database. No validation is performed.
func ToDatabase(settings domain.Settings) *domain.Database {
	db := domain.NewDatabase()

	for _, itemType := range settings.InspectedItemTypes {
		db.InspectedItemTypeIDs = append(db.InspectedItemTypeIDs, itemType.ID)
		db.ItemTypes[itemType.ID] = domain.ItemTypeRecord{
			ID:        itemType.ID,
			Name:      itemType.Name,
			Kind:      itemType.Kind,
			Inspected: true,
		}

		componentIDs := make([]string, 0, len(itemType.Components))
		for _, component := range itemType.Components {
			componentIDs = append(componentIDs, component.ID)
			minRating, maxRating := component.RatingScale.Min, component.RatingScale.Max
			db.Components[component.ID] = domain.ComponentRecord{
				ID:                           component.ID,
				ItemTypeID:                   itemType.ID,
				Name:                         component.Name,
				RatingScale:                  domain.RatingScaleRecord{Min: &minRating, Max: &maxRating},
				WeightPercent:                component.WeightPercent,
				AllowNotInspectedUsePrevious: component.AllowNotInspectedUsePrevious,
			}
		}
		db.ComponentIDsByItemType[itemType.ID] = componentIDs
	}

	for _, itemType := range settings.NonInspectedItemTypes {
		db.NonInspectedItemTypeIDs = append(db.NonInspectedItemTypeIDs, itemType.ID)
		db.ItemTypes[itemType.ID] = domain.ItemTypeRecord{
			ID:   itemType.ID,
			Name: itemType.Name,
			Kind: itemType.Kind,
		}
	}

	for _, collection := range settings.Collections {
		db.CollectionIDs = append(db.CollectionIDs, collection.ID)

		itemIDs := make([]string, 0, len(collection.Items))
		for _, item := range collection.Items {
			itemIDs = append(itemIDs, item.ID)
			db.Items[item.ID] = domain.ItemRecord{
				ID:                 item.ID,
				Name:               item.Name,
				TypeID:             item.TypeID,
				Station:            copyFloat(item.Station),
				StartStationItemID: item.StartStationItemID,
				EndStationItemID:   item.EndStationItemID,
			}
		}

		db.Collections[collection.ID] = domain.CollectionRecord{
			ID:      collection.ID,
			Name:    collection.Name,
			ItemIDs: itemIDs,
		}
	}

	return db
}

// ToSettings rebuilds the settings tree from a database. Dangling or
// mismatched references are omitted. A nil database yields empty settings.
func ToSettings(db *domain.Database) domain.Settings {
	if db == nil {
		return domain.DefaultSettings()
	}

	return domain.Settings{
		InspectedItemTypes: resolveAll(db.InspectedItemTypeIDs, func(id string) (domain.ItemType, bool) {
			return inspectedItemType(db, id)
		}),
		NonInspectedItemTypes: resolveAll(db.NonInspectedItemTypeIDs, func(id string) (domain.NonInspectedItemType, bool) {
			return nonInspectedItemType(db, id)
		}),
		Collections: resolveAll(db.CollectionIDs, func(id string) (domain.Collection, bool) {
			return collection(db, id)
		}),
	}
}

// resolveAll looks up every id in order and keeps the hits
func resolveAll[T any](ids []string, lookup func(id string) (T, bool)) []T {
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if v, ok := lookup(id); ok {
			out = append(out, v)
		}
	}
	return out
}

func inspectedItemType(db *domain.Database, id string) (domain.ItemType, bool) {
	record, ok := db.ItemTypes[id]
	if !ok || !record.Inspected {
		return domain.ItemType{}, false
	}

	return domain.ItemType{
		ID:   record.ID,
		Name: record.Name,
		Kind: record.Kind,
		Components: resolveAll(db.ComponentIDsByItemType[id], func(componentID string) (domain.Component, bool) {
			return component(db, componentID, id)
		}),
	}, true
}

func nonInspectedItemType(db *domain.Database, id string) (domain.NonInspectedItemType, bool) {
	record, ok := db.ItemTypes[id]
	if !ok || record.Inspected {
		return domain.NonInspectedItemType{}, false
	}

	return domain.NonInspectedItemType{
		ID:   record.ID,
		Name: record.Name,
		Kind: record.Kind,
	}, true
}

func component(db *domain.Database, id, itemTypeID string) (domain.Component, bool) {
	record, ok := db.Components[id]
	if !ok || record.ItemTypeID != itemTypeID {
		return domain.Component{}, false
	}

	return domain.Component{
		ID:                           record.ID,
		Name:                         record.Name,
		RatingScale:                  record.RatingScale.Scale(),
		WeightPercent:                record.WeightPercent,
		AllowNotInspectedUsePrevious: record.AllowNotInspectedUsePrevious,
	}, true
}

func collection(db *domain.Database, id string) (domain.Collection, bool) {
	record, ok := db.Collections[id]
	if !ok {
		return domain.Collection{}, false
	}

	return domain.Collection{
		ID:   record.ID,
		Name: record.Name,
		Items: resolveAll(record.ItemIDs, func(itemID string) (domain.Item, bool) {
			return item(db, itemID)
		}),
	}, true
}

func item(db *domain.Database, id string) (domain.Item, bool) {
	record, ok := db.Items[id]
	if !ok {
		return domain.Item{}, false
	}

	return domain.Item{
		ID:                 record.ID,
		Name:               record.Name,
		TypeID:             record.TypeID,
		Station:            copyFloat(record.Station),
		StartStationItemID: record.StartStationItemID,
		EndStationItemID:   record.EndStationItemID,
	}, true
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
