// Package pagetype labels site paths with the kind of page they render and
// pulls the airport, airline or route codes out of them.
package pagetype

import "strings"

type PageType string

const (
	Home         PageType = "home"
	Airport      PageType = "airport"
	Airline      PageType = "airline"
	AirlineRoute PageType = "airline_route"
	FlightRoute  PageType = "flight_route"
	Blog         PageType = "blog"
	Other        PageType = "other"
)

const (
	flightsPrefix  = "/flights/"
	airportsPrefix = "/airports/"
	airlinesPrefix = "/airlines/"
	blogPrefix     = "/blog/"
)

// Page is a classified path with its extracted identifiers.
type Page struct {
	Path      string   `json:"path"`
	Type      PageType `json:"type"`
	Primary   string   `json:"primary,omitempty"`
	Secondary string   `json:"secondary,omitempty"`
}

// Describe classifies path and extracts both identifiers.
func Describe(path string) Page {
	t := Classify(path)
	return Page{
		Path:      path,
		Type:      t,
		Primary:   ExtractPrimary(path, t),
		Secondary: ExtractSecondary(path, t),
	}
}

// Classify returns the page type of path. Rules are checked in order and the
// first match wins.
func Classify(path string) PageType {
	segments := strings.Split(path, "/")

	switch {
	case path == "/":
		return Home
	case strings.HasPrefix(path, flightsPrefix) && strings.Contains(segment(segments, 2), "-"):
		return FlightRoute
	case strings.HasPrefix(path, airportsPrefix):
		return Airport
	case strings.HasPrefix(path, airlinesPrefix) && len(segments) == 3:
		return Airline
	case strings.HasPrefix(path, airlinesPrefix) && len(segments) == 4:
		return AirlineRoute
	case strings.HasPrefix(path, blogPrefix):
		return Blog
	}
	return Other
}

// ExtractPrimary returns the main entity identifier of a path of type t.
func ExtractPrimary(path string, t PageType) string {
	segments := strings.Split(path, "/")

	switch t {
	case FlightRoute:
		return segment(segments, 2)
	case Airport, Airline, AirlineRoute:
		return strings.ToUpper(segment(segments, 2))
	}
	return ""
}

// ExtractSecondary returns the second identifier of a path of type t. The
// airline_route value keeps the case it has in the path.
func ExtractSecondary(path string, t PageType) string {
	segments := strings.Split(path, "/")

	switch t {
	case FlightRoute:
		_, destination, found := strings.Cut(segment(segments, 2), "-")
		if !found {
			return ""
		}
		return strings.ToUpper(destination)
	case AirlineRoute:
		return segment(segments, 3)
	}
	return ""
}

func segment(segments []string, i int) string {
	if i < len(segments) {
		return segments[i]
	}
	return ""
}
