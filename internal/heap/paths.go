package heap

import "golang.org/x/exp/slices"

// Path is a chain of object ids from a target back to a root.
type Path struct {
	IDs []ObjectID // Sequence from target to root
}

// ReverseEdges maps each object to the objects that reference it.
type ReverseEdges map[ObjectID][]ObjectID

// BuildReverseEdges indexes referrers for every live object.
func BuildReverseEdges(objects []*Object) ReverseEdges {
	reverse := make(ReverseEdges)
	for _, obj := range objects {
		for _, target := range obj.References {
			reverse[target] = append(reverse[target], obj.ID)
		}
	}
	return reverse
}

// PathsToRoots finds up to maxPaths shortest reference chains that keep id alive.
// It returns nil when id is unreachable or maxPaths is not positive.
//
// Each object is expanded at most maxPaths times, so the search stays
// polynomial on densely connected graphs at the cost of possibly missing
// some longer chains.
func (m *Model) PathsToRoots(id ObjectID, maxPaths int) []Path {
	if maxPaths <= 0 || m.store.Get(id) == nil {
		return nil
	}
	if !m.ReachableObjects().Has(id) {
		return nil
	}

	rootSet := NewIDSet(m.GCRoots()...)
	if rootSet.Has(id) {
		return []Path{{IDs: []ObjectID{id}}}
	}

	reverse := BuildReverseEdges(m.AllObjects())

	type searchNode struct {
		id   ObjectID
		path []ObjectID
	}

	var result []Path
	expanded := make(map[ObjectID]int)
	queue := []searchNode{{id: id, path: []ObjectID{id}}}

	for len(queue) > 0 && len(result) < maxPaths {
		node := queue[0]
		queue = queue[1:]

		if expanded[node.id] >= maxPaths {
			continue
		}
		expanded[node.id]++

		for _, referrer := range reverse[node.id] {
			// A path never revisits an object.
			if slices.Contains(node.path, referrer) {
				continue
			}

			path := append(slices.Clone(node.path), referrer)
			if rootSet.Has(referrer) {
				result = append(result, Path{IDs: path})
				if len(result) >= maxPaths {
					break
				}
				continue
			}
			queue = append(queue, searchNode{id: referrer, path: path})
		}
	}

	return result
}
