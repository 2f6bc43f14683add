// Package validation checks a settings tree and reports every problem it
// finds as a human-readable diagnostic.
//
// Validation never fails and never stops early. Diagnostics are ordered:
// inspected item types with their components, non-inspected item types,
// then each collection's items followed by its connectivity check.
package validation

import (
	"fmt"
	"math"
	"strings"

	"inspectnet/internal/domain"
)

// Report is the outcome of a validation pass
type Report struct {
	Diagnostics []string `json:"diagnostics"`
}

// Valid reports whether no diagnostics were produced
func (r Report) Valid() bool {
	return len(r.Diagnostics) == 0
}

// Count returns the number of diagnostics
func (r Report) Count() int {
	return len(r.Diagnostics)
}

// Run validates settings and wraps the result in a Report
func Run(settings domain.Settings) Report {
	return Report{Diagnostics: Validate(settings)}
}

// Validate returns every diagnostic for settings, in tree order
func Validate(settings domain.Settings) []string {
	errs := []string{}

	inspectedNames := make(map[string]struct{})
	for _, itemType := range settings.InspectedItemTypes {
		name := strings.TrimSpace(itemType.Name)
		if name == "" {
			errs = append(errs, "Inspected item types must have a name.")
		}
		if _, dup := inspectedNames[name]; dup {
			errs = append(errs, fmt.Sprintf("Inspected item type name %q is duplicated.", name))
		}
		inspectedNames[name] = struct{}{}

		for _, component := range itemType.Components {
			errs = append(errs, validateComponent(itemType, component)...)
		}
	}

	nonInspectedNames := make(map[string]struct{})
	for _, itemType := range settings.NonInspectedItemTypes {
		name := strings.TrimSpace(itemType.Name)
		if name == "" {
			errs = append(errs, "Non-inspected item types must have a name.")
		}
		if _, dup := nonInspectedNames[name]; dup {
			errs = append(errs, fmt.Sprintf("Non-inspected item type name %q is duplicated.", name))
		}
		nonInspectedNames[name] = struct{}{}
	}

	kinds := settings.ItemKinds()
	for _, collection := range settings.Collections {
		errs = append(errs, validateItems(collection, kinds)...)
		errs = append(errs, CheckConnectivity(collection, kinds)...)
	}

	return errs
}

func validateComponent(itemType domain.ItemType, component domain.Component) []string {
	var errs []string

	if strings.TrimSpace(component.Name) == "" {
		errs = append(errs, fmt.Sprintf("Component names for %q cannot be empty.", itemType.Name))
	}

	scale := component.RatingScale
	if scale.Min < domain.MinRating || scale.Max > domain.MaxRating {
		errs = append(errs, fmt.Sprintf("Component %q in %q must use ratings between %d and %d.",
			component.Name, itemType.Name, domain.MinRating, domain.MaxRating))
	}
	if scale.Min > scale.Max {
		errs = append(errs, fmt.Sprintf("Component %q in %q must have a minimum rating less than or equal to the maximum.",
			component.Name, itemType.Name))
	}

	if component.WeightPercent < 0 || component.WeightPercent > 100 {
		errs = append(errs, fmt.Sprintf("Component %q in %q must use a weight between 0 and 100%%.",
			component.Name, itemType.Name))
	}

	return errs
}

func validateItems(collection domain.Collection, kinds map[string]domain.ItemKind) []string {
	var errs []string
	names := make(map[string]struct{})

	for _, item := range collection.Items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			errs = append(errs, fmt.Sprintf("Collection %q: items must have a name.", collection.Name))
		}
		if _, dup := names[name]; dup {
			errs = append(errs, fmt.Sprintf("Collection %q: item name %q is duplicated.", collection.Name, name))
		}
		names[name] = struct{}{}

		// Items whose type does not resolve have no kind to check against
		switch kinds[item.TypeID] {
		case domain.ItemKindPoint:
			if item.Station == nil || math.IsNaN(*item.Station) {
				errs = append(errs, fmt.Sprintf("Collection %q: point item %q must have a station value.",
					collection.Name, item.Name))
			}
		case domain.ItemKindLinear:
			if item.StartStationItemID == "" || item.EndStationItemID == "" {
				errs = append(errs, fmt.Sprintf("Collection %q: linear item %q must reference start and end station items.",
					collection.Name, item.Name))
			}
		}
	}

	return errs
}
