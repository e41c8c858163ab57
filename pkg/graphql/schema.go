package graphql

import (
	"errors"
	"sort"
	"strconv"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-globe/pkg/markers"
)

// QueryRecorder receives one observation per resolved marker or arc query.
type QueryRecorder interface {
	RecordMarkerQuery(surface, status string, results int)
}

const surface = "graphql"

var errNoDataset = errors.New("no dataset loaded")

type countEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

var coordinatesType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Coordinates",
	Fields: graphql.Fields{
		"lat": &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"lng": &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
	},
})

var connectionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Connection",
	Fields: graphql.Fields{
		"id":                &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"target":            &graphql.Field{Type: graphql.String},
		"targetCoordinates": &graphql.Field{Type: coordinatesType},
		"arcAlt":            &graphql.Field{Type: graphql.Float},
		"color":             &graphql.Field{Type: graphql.String},
		"order":             &graphql.Field{Type: graphql.Int},
		"description":       &graphql.Field{Type: graphql.String},
	},
})

var markerType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Marker",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"name":        &graphql.Field{Type: graphql.String},
		"country":     &graphql.Field{Type: graphql.String},
		"region":      &graphql.Field{Type: graphql.String},
		"coordinates": &graphql.Field{Type: coordinatesType},
		"type": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				m, _ := p.Source.(markers.Marker)
				return string(m.Type), nil
			},
		},
		// Float, since GraphQL Int is 32-bit.
		"population": &graphql.Field{
			Type: graphql.Float,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				m, _ := p.Source.(markers.Marker)
				return float64(m.Population), nil
			},
		},
		"connections": &graphql.Field{Type: graphql.NewList(connectionType)},
	},
})

var countType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Count",
	Fields: graphql.Fields{
		"name":  &graphql.Field{Type: graphql.String},
		"count": &graphql.Field{Type: graphql.Int},
	},
})

var statisticsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Statistics",
	Fields: graphql.Fields{
		"totalMarkers":     &graphql.Field{Type: graphql.Int},
		"totalConnections": &graphql.Field{Type: graphql.Int},
		"regions": &graphql.Field{
			Type: graphql.NewList(countType),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				s, _ := p.Source.(markers.Statistics)
				return sortedCounts(s.Regions), nil
			},
		},
		"types": &graphql.Field{
			Type: graphql.NewList(countType),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				s, _ := p.Source.(markers.Statistics)
				return sortedCounts(s.Types), nil
			},
		},
	},
})

var metadataType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Metadata",
	Fields: graphql.Fields{
		"version":     &graphql.Field{Type: graphql.String},
		"lastUpdated": &graphql.Field{Type: graphql.String},
		"source":      &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
	},
})

var resultType = graphql.NewObject(graphql.ObjectConfig{
	Name: "MarkerResult",
	Fields: graphql.Fields{
		"markers":    &graphql.Field{Type: graphql.NewList(markerType)},
		"statistics": &graphql.Field{Type: statisticsType},
	},
})

var arcType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Arc",
	Fields: graphql.Fields{
		"order":    &graphql.Field{Type: graphql.Int},
		"startLat": &graphql.Field{Type: graphql.Float},
		"startLng": &graphql.Field{Type: graphql.Float},
		"endLat":   &graphql.Field{Type: graphql.Float},
		"endLng":   &graphql.Field{Type: graphql.Float},
		"arcAlt":   &graphql.Field{Type: graphql.Float},
		"color":    &graphql.Field{Type: graphql.String},
	},
})

var filterArgs = graphql.FieldConfigArgument{
	"region": &graphql.ArgumentConfig{Type: graphql.String},
	"type":   &graphql.ArgumentConfig{Type: graphql.String},
	"limit":  &graphql.ArgumentConfig{Type: graphql.Int},
}

// NewSchema builds the read-only marker schema over store. recorder may be nil.
func NewSchema(store *markers.Store, recorder QueryRecorder) (graphql.Schema, error) {
	r := &resolver{store: store, recorder: recorder}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"markers": &graphql.Field{
				Type:    resultType,
				Args:    filterArgs,
				Resolve: r.markers,
			},
			"marker": &graphql.Field{
				Type: markerType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.marker,
			},
			"arcs": &graphql.Field{
				Type:    graphql.NewList(arcType),
				Args:    filterArgs,
				Resolve: r.arcs,
			},
			"metadata": &graphql.Field{
				Type:    metadataType,
				Resolve: r.metadata,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
}

type resolver struct {
	store    *markers.Store
	recorder QueryRecorder
}

func (r *resolver) record(status string, results int) {
	if r.recorder != nil {
		r.recorder.RecordMarkerQuery(surface, status, results)
	}
}

func (r *resolver) query(p graphql.ResolveParams) (markers.Result, error) {
	d := r.store.Dataset()
	if d == nil {
		r.record("error", 0)
		return markers.Result{}, errNoDataset
	}
	res := d.Query(filterFromArgs(p.Args))
	r.record("success", len(res.Markers))
	return res, nil
}

func (r *resolver) markers(p graphql.ResolveParams) (any, error) {
	res, err := r.query(p)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *resolver) arcs(p graphql.ResolveParams) (any, error) {
	res, err := r.query(p)
	if err != nil {
		return nil, err
	}
	return markers.Flatten(res.Markers), nil
}

func (r *resolver) marker(p graphql.ResolveParams) (any, error) {
	d := r.store.Dataset()
	if d == nil {
		return nil, errNoDataset
	}
	id, _ := p.Args["id"].(string)
	m, err := d.Marker(id)
	if errors.Is(err, markers.ErrMarkerNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *resolver) metadata(p graphql.ResolveParams) (any, error) {
	d := r.store.Dataset()
	if d == nil {
		return nil, errNoDataset
	}
	return d.Metadata(), nil
}

func filterFromArgs(args map[string]any) markers.Filter {
	var f markers.Filter
	f.Region, _ = args["region"].(string)
	f.Type, _ = args["type"].(string)
	if limit, ok := args["limit"].(int); ok {
		f.Limit = strconv.Itoa(limit)
	}
	return f
}

func sortedCounts(m map[string]int) []countEntry {
	out := make([]countEntry, 0, len(m))
	for name, n := range m {
		out = append(out, countEntry{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
