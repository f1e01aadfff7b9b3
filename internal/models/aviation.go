package models

import "strings"

// Collection names shared by the store and the sitemap partitions.
const (
	CollectionAirports        = "airports"
	CollectionAirlines        = "airlines"
	CollectionRoutes          = "routes"
	CollectionAirlineRoutes   = "airline_routes"
	CollectionAirlineAirports = "airline_airports"
	CollectionBlogPosts       = "blog_posts"
)

// Code fields, primary first. Older imports used the short names.
var (
	AirportCodeFields     = []string{"iata_code", "iata"}
	AirlineCodeFields     = []string{"iata_code", "code"}
	OriginCodeFields      = []string{"origin_iata", "origin"}
	DestinationCodeFields = []string{"destination_iata", "destination"}
	RouteAirlineFields    = []string{"airline_code", "airline"}
	RouteAirportFields    = []string{"airport_iata", "airport"}
	BlogSlugFields        = []string{"slug", "permalink"}
)

type Airport struct {
	IATA    string `json:"iata"`
	Name    string `json:"name"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

type Airline struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
}

type Route struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Airline     string `json:"airline,omitempty"`
}

// AirportFromDocument maps a stored airport document to its API view.
func AirportFromDocument(d *Document) *Airport {
	return &Airport{
		IATA:    strings.ToUpper(d.FirstString(AirportCodeFields...)),
		Name:    d.String("name"),
		City:    d.String("city"),
		Country: d.String("country"),
	}
}

// AirlineFromDocument maps a stored airline document to its API view.
func AirlineFromDocument(d *Document) *Airline {
	return &Airline{
		Code:    strings.ToUpper(d.FirstString(AirlineCodeFields...)),
		Name:    d.String("name"),
		Country: d.String("country"),
	}
}

// RouteFromDocument maps a stored route document to its API view.
func RouteFromDocument(d *Document) *Route {
	return &Route{
		Origin:      strings.ToUpper(d.FirstString(OriginCodeFields...)),
		Destination: strings.ToUpper(d.FirstString(DestinationCodeFields...)),
		Airline:     strings.ToUpper(d.FirstString(RouteAirlineFields...)),
	}
}
