package markers

func conn(id, target string, order int) Connection {
	return Connection{
		ID:                id,
		Target:            target,
		TargetCoordinates: Coordinates{Lat: -22.9068, Lng: -43.1729},
		ArcAlt:            0.1,
		Color:             "#06b6d4",
		Order:             order,
	}
}

// brazil returns the two-marker graph used in most tests: sp precedes rj.
func brazil() []Marker {
	return []Marker{
		{
			ID:          "sp",
			Name:        "São Paulo",
			Country:     "Brazil",
			Region:      "Southeast",
			Coordinates: Coordinates{Lat: -23.5505, Lng: -46.6333},
			Type:        TypeCapital,
			Population:  12325000,
			Connections: []Connection{conn("sp-rj", "rj", 1)},
		},
		{
			ID:          "rj",
			Name:        "Rio de Janeiro",
			Country:     "Brazil",
			Region:      "Southeast",
			Coordinates: Coordinates{Lat: -22.9068, Lng: -43.1729},
			Type:        TypeCity,
			Population:  6748000,
			Connections: []Connection{},
		},
	}
}

// mixed returns a larger set covering every type and several regions.
func mixed() []Marker {
	return append(brazil(),
		Marker{
			ID: "poa", Name: "Porto Alegre", Country: "Brazil", Region: "Rio Grande do Sul",
			Coordinates: Coordinates{Lat: -30.0346, Lng: -51.2177}, Type: TypeCity,
			Connections: []Connection{conn("poa-sp", "sp", 2), conn("poa-bsb", "bsb", 3)},
		},
		Marker{
			ID: "bsb", Name: "Brasília", Country: "Brazil", Region: "Central-West",
			Coordinates: Coordinates{Lat: -15.7939, Lng: -47.8828}, Type: TypeCapital,
			Connections: []Connection{conn("bsb-lis", "lisbon", 4)},
		},
		Marker{
			ID: "mc", Name: "Monaco", Country: "Monaco", Region: "Europe",
			Coordinates: Coordinates{Lat: 43.7384, Lng: 7.4246}, Type: TypeCityState,
		},
		Marker{
			ID: "fn", Name: "Fernando de Noronha", Country: "Brazil", Region: "Northeast",
			Coordinates: Coordinates{Lat: -3.8576, Lng: -32.4297}, Type: TypeOther,
			Connections: []Connection{conn("fn-rec", "recife", 5)},
		},
	)
}
