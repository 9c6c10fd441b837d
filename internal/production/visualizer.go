package production

import (
	"bytes"
	"fmt"

	"github.com/comalice/heapsim/internal/heap"
)

// DefaultMaxEdges is the edge budget above which only key edges are drawn.
const DefaultMaxEdges = 200

// Edge is one reference drawn by the visualizer.
type Edge struct {
	From heap.ObjectID
	To   heap.ObjectID
}

// HeapVisualizer renders a heap snapshot as Graphviz DOT source.
type HeapVisualizer struct {
	// MaxEdges caps the number of edges drawn; zero means DefaultMaxEdges.
	MaxEdges int

	// Selected, when non-zero, is highlighted and keeps its outgoing edges
	// when the graph is reduced to key edges.
	Selected heap.ObjectID
}

// ExportDOT generates DOT source with one cluster per partition. Roots are
// drawn with a double border, marked objects orange, other reachable objects
// green and unreachable ones grey.
func (v *HeapVisualizer) ExportDOT(snap heap.Snapshot, marked heap.IDSet) string {
	var buf bytes.Buffer
	buf.WriteString(`digraph Heap {
  rankdir=LR;
  compound=true;
  node [shape=box, fontsize=10, style="rounded,filled", fillcolor=white];
  edge [fontsize=9];
`)

	byID := make(map[heap.ObjectID]heap.ObjectSnapshot, len(snap.Objects))
	for _, o := range snap.Objects {
		byID[o.ID] = o
	}

	for _, loc := range heap.Locations() {
		label := string(loc)
		if loc == snap.FromSpace {
			label += " (from)"
		}
		fmt.Fprintf(&buf, "  subgraph cluster_%s {\n", loc)
		fmt.Fprintf(&buf, "    label=%q;\n", label)
		for _, id := range snap.Partitions[loc] {
			if o, ok := byID[id]; ok {
				v.renderObject(&buf, o, marked)
			}
		}
		buf.WriteString("  }\n")
	}

	for _, e := range v.edges(snap) {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From.String(), e.To.String())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func (v *HeapVisualizer) renderObject(buf *bytes.Buffer, o heap.ObjectSnapshot, marked heap.IDSet) {
	fill := "lightgrey"
	switch {
	case marked.Has(o.ID):
		fill = "orange"
	case o.Reachable:
		fill = "lightgreen"
	}

	extra := ""
	if o.Root {
		extra += " peripheries=2"
	}
	if o.ID == v.Selected {
		extra += " penwidth=3"
	}

	label := fmt.Sprintf("%s\\n%s %dB age %d", o.ID, o.Type, o.Size, o.Age)
	fmt.Fprintf(buf, "    %q [label=\"%s\" fillcolor=%s%s];\n", o.ID.String(), label, fill, extra)
}

// edges returns every reference when they fit the budget, otherwise the key
// edges: root references first, then the selected object's references, up to
// the budget.
func (v *HeapVisualizer) edges(snap heap.Snapshot) []Edge {
	limit := v.MaxEdges
	if limit <= 0 {
		limit = DefaultMaxEdges
	}

	live := make(map[heap.ObjectID]heap.ObjectSnapshot, len(snap.Objects))
	var all []Edge
	for _, o := range snap.Objects {
		live[o.ID] = o
	}
	for _, o := range snap.Objects {
		for _, ref := range o.References {
			if _, ok := live[ref]; ok {
				all = append(all, Edge{From: o.ID, To: ref})
			}
		}
	}

	if len(all) <= limit {
		return all
	}

	return KeyEdges(live, snap.GCRoots, v.Selected, limit)
}

// KeyEdges selects the references of every root, then those of selected
// until limit is reached. Root edges are never dropped.
func KeyEdges(objects map[heap.ObjectID]heap.ObjectSnapshot, roots []heap.ObjectID, selected heap.ObjectID, limit int) []Edge {
	var out []Edge
	added := make(map[Edge]bool)

	add := func(e Edge) {
		if _, ok := objects[e.To]; !ok || added[e] {
			return
		}
		added[e] = true
		out = append(out, e)
	}

	for _, root := range roots {
		for _, ref := range objects[root].References {
			add(Edge{From: root, To: ref})
		}
	}

	if sel, ok := objects[selected]; ok {
		for _, ref := range sel.References {
			if len(out) >= limit {
				break
			}
			add(Edge{From: selected, To: ref})
		}
	}
	return out
}
