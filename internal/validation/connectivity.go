package validation

import (
	"fmt"

	"inspectnet/internal/domain"
)

// CheckConnectivity verifies that the linear items of a collection form a
// single connected network over the point items they reference.
//
// Linear items with a missing endpoint, or an endpoint that is not a point
// item of the same collection, are reported and left out of the graph. At
// most one "not fully connected" diagnostic is produced per collection.
func CheckConnectivity(collection domain.Collection, kinds map[string]domain.ItemKind) []string {
	var errs []string

	points := make(map[string]struct{})
	for _, item := range collection.Items {
		if kinds[item.TypeID] == domain.ItemKindPoint {
			points[item.ID] = struct{}{}
		}
	}

	// nodes keeps first-encounter order so the traversal start is stable
	var nodes []string
	adjacency := make(map[string]map[string]struct{})
	addNode := func(id string) {
		if _, ok := adjacency[id]; !ok {
			adjacency[id] = make(map[string]struct{})
			nodes = append(nodes, id)
		}
	}

	for _, item := range collection.Items {
		if kinds[item.TypeID] != domain.ItemKindLinear {
			continue
		}

		start, end := item.StartStationItemID, item.EndStationItemID
		if start == "" || end == "" {
			errs = append(errs, fmt.Sprintf("Collection %q: linear item %q must have both a start and end station item.",
				collection.Name, item.Name))
			continue
		}

		_, startOK := points[start]
		_, endOK := points[end]
		if !startOK || !endOK {
			errs = append(errs, fmt.Sprintf("Collection %q: linear item %q must reference point items for start and end.",
				collection.Name, item.Name))
			continue
		}

		addNode(start)
		addNode(end)
		adjacency[start][end] = struct{}{}
		adjacency[end][start] = struct{}{}
	}

	if len(nodes) <= 1 {
		return errs
	}

	if reachable(nodes[0], adjacency) < len(nodes) {
		errs = append(errs, fmt.Sprintf("Collection %q: the linear network is not fully connected. Ensure each linear item connects through stationed point items.",
			collection.Name))
	}

	return errs
}

// reachable counts the nodes visited by a breadth-first walk from start
func reachable(start string, adjacency map[string]map[string]struct{}) int {
	visited := map[string]struct{}{start: {}}
	queue := []string{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for neighbor := range adjacency[current] {
			if _, seen := visited[neighbor]; seen {
				continue
			}
			visited[neighbor] = struct{}{}
			queue = append(queue, neighbor)
		}
	}

	return len(visited)
}
