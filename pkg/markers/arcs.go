package markers

// Flatten emits one Arc per connection, in marker order and then connection
// order. Start is the owning marker's position, end the connection's target.
func Flatten(ms []Marker) []Arc {
	n := 0
	for i := range ms {
		n += len(ms[i].Connections)
	}

	arcs := make([]Arc, 0, n)
	for i := range ms {
		m := &ms[i]
		for _, c := range m.Connections {
			arcs = append(arcs, Arc{
				Order:    c.Order,
				StartLat: m.Coordinates.Lat,
				StartLng: m.Coordinates.Lng,
				EndLat:   c.TargetCoordinates.Lat,
				EndLng:   c.TargetCoordinates.Lng,
				ArcAlt:   c.ArcAlt,
				Color:    c.Color,
			})
		}
	}
	return arcs
}
