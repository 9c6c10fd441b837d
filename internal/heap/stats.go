package heap

// PartitionStats summarises one partition.
type PartitionStats struct {
	Objects int    `json:"objects" yaml:"objects"`
	Bytes   uint64 `json:"bytes" yaml:"bytes"`
}

// Stats summarises the model for display.
type Stats struct {
	TotalObjects       int                         `json:"totalObjects" yaml:"totalObjects"`
	TotalBytes         uint64                      `json:"totalBytes" yaml:"totalBytes"`
	Partitions         map[Location]PartitionStats `json:"partitions" yaml:"partitions"`
	ReachableObjects   int                         `json:"reachableObjects" yaml:"reachableObjects"`
	UnreachableObjects int                         `json:"unreachableObjects" yaml:"unreachableObjects"`
	GCRoots            int                         `json:"gcRoots" yaml:"gcRoots"`
	Threads            int                         `json:"threads" yaml:"threads"`
}

// Stats computes current statistics. Reachability is recomputed.
func (m *Model) Stats() Stats {
	objects := m.AllObjects()
	reachable := ComputeReachable(m.GCRoots(), objects)

	s := Stats{
		TotalObjects:       len(objects),
		Partitions:         make(map[Location]PartitionStats, 4),
		ReachableObjects:   reachable.Len(),
		UnreachableObjects: len(objects) - reachable.Len(),
		GCRoots:            len(m.GCRoots()),
		Threads:            len(m.roots.Threads()),
	}
	for _, loc := range Locations() {
		var ps PartitionStats
		for _, obj := range m.partitions.Objects(loc) {
			ps.Objects++
			ps.Bytes += obj.Size
		}
		s.Partitions[loc] = ps
		s.TotalBytes += ps.Bytes
	}
	return s
}
