package domain

import "encoding/json"

// componentDocument is the external shape of a component. Both rating
// bounds are optional and default-filled on decode.
type componentDocument struct {
	ID                           string            `json:"id" yaml:"id"`
	Name                         string            `json:"name" yaml:"name"`
	RatingScale                  RatingScaleRecord `json:"ratingScale" yaml:"ratingScale"`
	WeightPercent                float64           `json:"weightPercent" yaml:"weightPercent"`
	AllowNotInspectedUsePrevious bool              `json:"allowNotInspectedUsePrevious" yaml:"allowNotInspectedUsePrevious"`
}

func (d componentDocument) component() Component {
	return Component{
		ID:                           d.ID,
		Name:                         d.Name,
		RatingScale:                  d.RatingScale.Scale(),
		WeightPercent:                d.WeightPercent,
		AllowNotInspectedUsePrevious: d.AllowNotInspectedUsePrevious,
	}
}

// UnmarshalJSON decodes a component, defaulting missing rating bounds
func (c *Component) UnmarshalJSON(data []byte) error {
	var doc componentDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*c = doc.component()
	return nil
}

// UnmarshalYAML decodes a component, defaulting missing rating bounds
func (c *Component) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var doc componentDocument
	if err := unmarshal(&doc); err != nil {
		return err
	}
	*c = doc.component()
	return nil
}

// ApplyDefaults normalizes a tree received from outside the service: nil
// lists become empty and unknown kinds fall back to point.
func (s *Settings) ApplyDefaults() {
	if s.InspectedItemTypes == nil {
		s.InspectedItemTypes = []ItemType{}
	}
	if s.NonInspectedItemTypes == nil {
		s.NonInspectedItemTypes = []NonInspectedItemType{}
	}
	if s.Collections == nil {
		s.Collections = []Collection{}
	}
	for i := range s.InspectedItemTypes {
		t := &s.InspectedItemTypes[i]
		t.Kind = ParseItemKind(string(t.Kind))
		if t.Components == nil {
			t.Components = []Component{}
		}
	}
	for i := range s.NonInspectedItemTypes {
		t := &s.NonInspectedItemTypes[i]
		t.Kind = ParseItemKind(string(t.Kind))
	}
	for i := range s.Collections {
		if s.Collections[i].Items == nil {
			s.Collections[i].Items = []Item{}
		}
	}
}
