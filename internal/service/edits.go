package service

import (
	"context"

	"inspectnet/internal/domain"
)

// ItemTypePatch holds optional item type field edits
type ItemTypePatch struct {
	Name *string          `json:"name,omitempty"`
	Kind *domain.ItemKind `json:"kind,omitempty"`
}

// ComponentPatch holds optional component field edits
type ComponentPatch struct {
	Name                         *string  `json:"name,omitempty"`
	RatingMin                    *float64 `json:"ratingMin,omitempty"`
	RatingMax                    *float64 `json:"ratingMax,omitempty"`
	WeightPercent                *float64 `json:"weightPercent,omitempty"`
	AllowNotInspectedUsePrevious *bool    `json:"allowNotInspectedUsePrevious,omitempty"`
}

// CollectionPatch holds optional collection field edits
type CollectionPatch struct {
	Name *string `json:"name,omitempty"`
}

// ItemPatch holds optional item field edits. ClearStation unsets the
// station; an empty reference string unsets that reference.
type ItemPatch struct {
	Name               *string  `json:"name,omitempty"`
	TypeID             *string  `json:"typeId,omitempty"`
	Station            *float64 `json:"station,omitempty"`
	ClearStation       bool     `json:"clearStation,omitempty"`
	StartStationItemID *string  `json:"startStationItemId,omitempty"`
	EndStationItemID   *string  `json:"endStationItemId,omitempty"`
}

// AddItemType appends an unnamed point type to the inspected or
// non-inspected group and returns its id
func (s *SettingsService) AddItemType(ctx context.Context, inspected bool) (string, error) {
	id := s.newID()
	err := s.mutate(ctx, "add_item_type", id, func(settings *domain.Settings) error {
		if !settings.CanAddItemType(inspected) {
			return ErrItemTypeLimit
		}
		if inspected {
			settings.InspectedItemTypes = append(settings.InspectedItemTypes, domain.ItemType{
				ID:         id,
				Kind:       domain.ItemKindPoint,
				Components: []domain.Component{},
			})
		} else {
			settings.NonInspectedItemTypes = append(settings.NonInspectedItemTypes, domain.NonInspectedItemType{
				ID:   id,
				Kind: domain.ItemKindPoint,
			})
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateItemType edits an item type in either group
func (s *SettingsService) UpdateItemType(ctx context.Context, id string, patch ItemTypePatch) error {
	return s.mutate(ctx, "update_item_type", id, func(settings *domain.Settings) error {
		if t := settings.FindItemType(id); t != nil {
			applyTypePatch(&t.Name, &t.Kind, patch)
			return nil
		}
		if t := settings.FindNonInspectedItemType(id); t != nil {
			applyTypePatch(&t.Name, &t.Kind, patch)
			return nil
		}
		return notFound("item type", id)
	})
}

func applyTypePatch(name *string, kind *domain.ItemKind, patch ItemTypePatch) {
	if patch.Name != nil {
		*name = *patch.Name
	}
	if patch.Kind != nil {
		*kind = domain.ParseItemKind(string(*patch.Kind))
	}
}

// RemoveItemType deletes an item type from whichever group holds it.
// Items referencing it are left alone.
func (s *SettingsService) RemoveItemType(ctx context.Context, id string) error {
	return s.mutate(ctx, "remove_item_type", id, func(settings *domain.Settings) error {
		inspected := filter(settings.InspectedItemTypes, func(t domain.ItemType) bool { return t.ID != id })
		nonInspected := filter(settings.NonInspectedItemTypes, func(t domain.NonInspectedItemType) bool { return t.ID != id })
		if len(inspected) == len(settings.InspectedItemTypes) && len(nonInspected) == len(settings.NonInspectedItemTypes) {
			return notFound("item type", id)
		}
		settings.InspectedItemTypes = inspected
		settings.NonInspectedItemTypes = nonInspected
		return nil
	})
}

// AddComponent appends a default component to an inspected item type
func (s *SettingsService) AddComponent(ctx context.Context, itemTypeID string) (string, error) {
	id := s.newID()
	err := s.mutate(ctx, "add_component", id, func(settings *domain.Settings) error {
		t := settings.FindItemType(itemTypeID)
		if t == nil {
			return notFound("inspected item type", itemTypeID)
		}
		t.Components = append(t.Components, domain.Component{
			ID:          id,
			RatingScale: domain.DefaultRatingScale(),
		})
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateComponent edits a component
func (s *SettingsService) UpdateComponent(ctx context.Context, id string, patch ComponentPatch) error {
	return s.mutate(ctx, "update_component", id, func(settings *domain.Settings) error {
		_, c := settings.FindComponent(id)
		if c == nil {
			return notFound("component", id)
		}
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.RatingMin != nil {
			c.RatingScale.Min = *patch.RatingMin
		}
		if patch.RatingMax != nil {
			c.RatingScale.Max = *patch.RatingMax
		}
		if patch.WeightPercent != nil {
			c.WeightPercent = *patch.WeightPercent
		}
		if patch.AllowNotInspectedUsePrevious != nil {
			c.AllowNotInspectedUsePrevious = *patch.AllowNotInspectedUsePrevious
		}
		return nil
	})
}

// RemoveComponent deletes a component from its item type
func (s *SettingsService) RemoveComponent(ctx context.Context, id string) error {
	return s.mutate(ctx, "remove_component", id, func(settings *domain.Settings) error {
		owner, _ := settings.FindComponent(id)
		if owner == nil {
			return notFound("component", id)
		}
		owner.Components = filter(owner.Components, func(c domain.Component) bool { return c.ID != id })
		return nil
	})
}

// AddCollection appends an empty collection
func (s *SettingsService) AddCollection(ctx context.Context) (string, error) {
	id := s.newID()
	err := s.mutate(ctx, "add_collection", id, func(settings *domain.Settings) error {
		settings.Collections = append(settings.Collections, domain.Collection{
			ID:    id,
			Items: []domain.Item{},
		})
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateCollection edits a collection
func (s *SettingsService) UpdateCollection(ctx context.Context, id string, patch CollectionPatch) error {
	return s.mutate(ctx, "update_collection", id, func(settings *domain.Settings) error {
		c := settings.FindCollection(id)
		if c == nil {
			return notFound("collection", id)
		}
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		return nil
	})
}

// RemoveCollection deletes a collection and its items
func (s *SettingsService) RemoveCollection(ctx context.Context, id string) error {
	return s.mutate(ctx, "remove_collection", id, func(settings *domain.Settings) error {
		remaining := filter(settings.Collections, func(c domain.Collection) bool { return c.ID != id })
		if len(remaining) == len(settings.Collections) {
			return notFound("collection", id)
		}
		settings.Collections = remaining
		return nil
	})
}

// AddItem appends an unnamed item to a collection. Its type defaults to
// the first declared item type, inspected types first.
func (s *SettingsService) AddItem(ctx context.Context, collectionID string) (string, error) {
	id := s.newID()
	err := s.mutate(ctx, "add_item", id, func(settings *domain.Settings) error {
		c := settings.FindCollection(collectionID)
		if c == nil {
			return notFound("collection", collectionID)
		}
		typeID := ""
		if summaries := settings.ItemTypeSummaries(); len(summaries) > 0 {
			typeID = summaries[0].ID
		}
		c.Items = append(c.Items, domain.Item{ID: id, TypeID: typeID})
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateItem edits an item. Switching to a point type clears the endpoint
// references; switching to a linear type clears the station.
func (s *SettingsService) UpdateItem(ctx context.Context, id string, patch ItemPatch) error {
	return s.mutate(ctx, "update_item", id, func(settings *domain.Settings) error {
		_, item := settings.FindItemAnywhere(id)
		if item == nil {
			return notFound("item", id)
		}

		if patch.Name != nil {
			item.Name = *patch.Name
		}
		if patch.TypeID != nil {
			item.TypeID = *patch.TypeID
			switch settings.ItemKinds()[item.TypeID] {
			case domain.ItemKindPoint:
				item.StartStationItemID = ""
				item.EndStationItemID = ""
			case domain.ItemKindLinear:
				item.Station = nil
			}
		}
		if patch.ClearStation {
			item.Station = nil
		} else if patch.Station != nil {
			station := *patch.Station
			item.Station = &station
		}
		if patch.StartStationItemID != nil {
			item.StartStationItemID = *patch.StartStationItemID
		}
		if patch.EndStationItemID != nil {
			item.EndStationItemID = *patch.EndStationItemID
		}
		return nil
	})
}

// RemoveItem deletes an item from its collection
func (s *SettingsService) RemoveItem(ctx context.Context, id string) error {
	return s.mutate(ctx, "remove_item", id, func(settings *domain.Settings) error {
		c, _ := settings.FindItemAnywhere(id)
		if c == nil {
			return notFound("item", id)
		}
		c.Items = filter(c.Items, func(item domain.Item) bool { return item.ID != id })
		return nil
	})
}

// filter keeps the elements for which keep returns true
func filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
