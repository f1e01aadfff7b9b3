package sitemap

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ashokbhamla/triposia.com-sub002/internal/models"
)

// Partition is one logical sitemap file family.
type Partition string

const (
	Static          Partition = "static"
	Airports        Partition = "airports"
	Airlines        Partition = "airlines"
	Blogs           Partition = "blogs"
	Flights         Partition = "flights"
	AirlineRoutes   Partition = "airline-routes"
	AirlineAirports Partition = "airline-airports"
)

type partitionSpec struct {
	kind       string
	collection string
	numbered   bool

	indexFreq     models.ChangeFrequency
	indexPriority float64
	entryFreq     models.ChangeFrequency

	// path returns the site path of doc, or false when doc has no usable code.
	path func(doc *models.Document) (string, bool)
}

// indexOrder is the order partitions appear in the index.
var indexOrder = []Partition{Static, Airports, Airlines, Blogs, Flights, AirlineRoutes, AirlineAirports}

var partitions = map[Partition]partitionSpec{
	Static: {
		indexFreq:     models.Monthly,
		indexPriority: 1.0,
	},
	Airports: {
		kind:          KindAirport,
		collection:    models.CollectionAirports,
		indexFreq:     models.Daily,
		indexPriority: 0.9,
		entryFreq:     models.Daily,
		path: func(doc *models.Document) (string, bool) {
			return join("/airports", doc.FirstString(models.AirportCodeFields...))
		},
	},
	Airlines: {
		kind:          KindAirline,
		collection:    models.CollectionAirlines,
		indexFreq:     models.Weekly,
		indexPriority: 0.8,
		entryFreq:     models.Weekly,
		path: func(doc *models.Document) (string, bool) {
			return join("/airlines", doc.FirstString(models.AirlineCodeFields...))
		},
	},
	Blogs: {
		kind:          KindBlog,
		collection:    models.CollectionBlogPosts,
		indexFreq:     models.Weekly,
		indexPriority: 0.5,
		entryFreq:     models.Weekly,
		path: func(doc *models.Document) (string, bool) {
			slug := doc.FirstString(models.BlogSlugFields...)
			if slug == "" {
				return "", false
			}
			return "/blog/" + url.PathEscape(slug), true
		},
	},
	Flights: {
		kind:          KindFlight,
		collection:    models.CollectionRoutes,
		numbered:      true,
		indexFreq:     models.Daily,
		indexPriority: 0.9,
		entryFreq:     models.Daily,
		path: func(doc *models.Document) (string, bool) {
			route, ok := routeToken(doc)
			if !ok {
				return "", false
			}
			return "/flights/" + route, true
		},
	},
	AirlineRoutes: {
		kind:          KindAirlineRoute,
		collection:    models.CollectionAirlineRoutes,
		numbered:      true,
		indexFreq:     models.Daily,
		indexPriority: 0.7,
		entryFreq:     models.Daily,
		path: func(doc *models.Document) (string, bool) {
			route, ok := routeToken(doc)
			if !ok {
				return "", false
			}
			return join("/airlines", doc.FirstString(models.RouteAirlineFields...), route)
		},
	},
	AirlineAirports: {
		kind:          KindAirlineAirport,
		collection:    models.CollectionAirlineAirports,
		numbered:      true,
		indexFreq:     models.Daily,
		indexPriority: 0.6,
		entryFreq:     models.Daily,
		path: func(doc *models.Document) (string, bool) {
			return join("/airlines",
				doc.FirstString(models.RouteAirlineFields...),
				doc.FirstString(models.RouteAirportFields...),
			)
		},
	},
}

// Partitions returns every partition in index order.
func Partitions() []Partition {
	return append([]Partition(nil), indexOrder...)
}

// Numbered reports whether p is split into numbered parts.
func (p Partition) Numbered() bool {
	return partitions[p].numbered
}

// FileName returns the sitemap file name of part n of p. Unnumbered
// partitions ignore n.
func FileName(p Partition, n int) string {
	if p.Numbered() {
		return fmt.Sprintf("sitemap-%s-%d.xml", p, n)
	}
	return fmt.Sprintf("sitemap-%s.xml", p)
}

// ParseFileName is the inverse of FileName. Unnumbered partitions return part 0.
func ParseFileName(name string) (Partition, int, error) {
	stem, ok := strings.CutPrefix(name, "sitemap-")
	if !ok {
		return "", 0, fmt.Errorf("%w: %s", ErrUnknownPartition, name)
	}
	stem, ok = strings.CutSuffix(stem, ".xml")
	if !ok {
		return "", 0, fmt.Errorf("%w: %s", ErrUnknownPartition, name)
	}

	if spec, found := partitions[Partition(stem)]; found && !spec.numbered {
		return Partition(stem), 0, nil
	}

	i := strings.LastIndex(stem, "-")
	if i < 0 {
		return "", 0, fmt.Errorf("%w: %s", ErrUnknownPartition, name)
	}
	p := Partition(stem[:i])
	if !p.Numbered() {
		return "", 0, fmt.Errorf("%w: %s", ErrUnknownPartition, name)
	}
	n, err := strconv.Atoi(stem[i+1:])
	if err != nil || n < 1 {
		return "", 0, fmt.Errorf("%w: %s", ErrInvalidPart, name)
	}
	return p, n, nil
}

// join builds a lowercased path from prefix and codes; any empty code fails.
func join(prefix string, codes ...string) (string, bool) {
	var b strings.Builder
	b.WriteString(prefix)
	for _, c := range codes {
		if c == "" {
			return "", false
		}
		b.WriteByte('/')
		b.WriteString(strings.ToLower(c))
	}
	return b.String(), true
}

func routeToken(doc *models.Document) (string, bool) {
	origin := doc.FirstString(models.OriginCodeFields...)
	destination := doc.FirstString(models.DestinationCodeFields...)
	if origin == "" || destination == "" {
		return "", false
	}
	return strings.ToLower(origin + "-" + destination), true
}
