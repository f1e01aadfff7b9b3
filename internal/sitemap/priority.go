package sitemap

// EntityRole selects the priority weighting of an entity kind's pages.
type EntityRole string

const (
	RoleHub            EntityRole = "hub"
	RoleCarrier        EntityRole = "carrier"
	RoleRoute          EntityRole = "route"
	RoleCarrierRoute   EntityRole = "carrier_route"
	RoleCarrierAirport EntityRole = "carrier_airport"
	RoleEditorial      EntityRole = "editorial"
	RolePage           EntityRole = "page"
)

// Entity kinds as used in page links.
const (
	KindAirport        = "airport"
	KindAirline        = "airline"
	KindFlight         = "flight"
	KindAirlineRoute   = "airline_route"
	KindAirlineAirport = "airline_airport"
	KindBlog           = "blog"
)

const defaultPriority = 0.5

// Both tables are fixed at init and only read afterwards.
var (
	entityRoles = map[string]EntityRole{
		KindAirport:        RoleHub,
		KindAirline:        RoleCarrier,
		KindFlight:         RoleRoute,
		KindAirlineRoute:   RoleCarrierRoute,
		KindAirlineAirport: RoleCarrierAirport,
		KindBlog:           RoleEditorial,
	}

	rolePriorities = map[EntityRole]float64{
		RoleHub:            0.8,
		RoleCarrier:        0.8,
		RoleRoute:          0.7,
		RoleCarrierRoute:   0.6,
		RoleCarrierAirport: 0.5,
		RoleEditorial:      0.5,
		RolePage:           defaultPriority,
	}
)

// GetEntityRole returns the role of an entity kind. Unknown kinds are plain pages.
func GetEntityRole(kind string) EntityRole {
	if role, ok := entityRoles[kind]; ok {
		return role
	}
	return RolePage
}

// GetSitemapPriority returns the sitemap priority for role.
func GetSitemapPriority(role EntityRole) float64 {
	if p, ok := rolePriorities[role]; ok {
		return p
	}
	return defaultPriority
}
