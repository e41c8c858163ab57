package markers

// ComputeStatistics aggregates ms. The result always describes exactly ms.
func ComputeStatistics(ms []Marker) Statistics {
	s := Statistics{
		TotalMarkers: len(ms),
		Regions:      make(map[string]int),
		Types:        make(map[string]int),
	}
	for i := range ms {
		s.TotalConnections += len(ms[i].Connections)
		s.Regions[ms[i].Region]++
		s.Types[string(ms[i].Type)]++
	}
	return s
}

func (s Statistics) clone() Statistics {
	out := s
	out.Regions = make(map[string]int, len(s.Regions))
	for k, v := range s.Regions {
		out.Regions[k] = v
	}
	out.Types = make(map[string]int, len(s.Types))
	for k, v := range s.Types {
		out.Types[k] = v
	}
	return out
}
