// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityBearer                      // Bearer token required
	SecurityAdmin                       // Bearer token of an admin
)

// EndpointSecurityConfig maps "METHOD route-template" to its required
// security level. Route templates use the router's {var} syntax.
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Auth - Public
	"POST /api/auth/login":     SecurityPublic,
	"POST /api/users/register": SecurityPublic,

	// Auth - Bearer
	"POST /api/auth/validate": SecurityBearer,

	// Users
	"GET /api/users":               SecurityAdmin,
	"GET /api/users/stats":         SecurityAdmin,
	"GET /api/users/branch-admins": SecurityBearer,
	"PUT /api/users/{id}/approve":  SecurityAdmin,
	"PUT /api/users/{id}/reject":   SecurityAdmin,
	"PUT /api/users/{id}/profile":  SecurityBearer,

	// Vehicles
	"GET /api/vehicles":           SecurityBearer,
	"GET /api/vehicles/available": SecurityBearer,
	"GET /api/vehicles/{id}":      SecurityBearer,
	"POST /api/vehicles":          SecurityAdmin,
	"PUT /api/vehicles/{id}":      SecurityAdmin,

	// Vehicle requests
	"GET /api/requests":              SecurityBearer,
	"POST /api/requests":             SecurityBearer,
	"PUT /api/requests/{id}/approve": SecurityAdmin,
	"PUT /api/requests/{id}/reject":  SecurityAdmin,

	// Bookings
	"GET /api/bookings":               SecurityBearer,
	"GET /api/bookings/customer/{id}": SecurityBearer,
	"GET /api/bookings/branch/{id}":   SecurityBearer,
	"POST /api/bookings":              SecurityBearer,
	"PUT /api/bookings/{id}/approve":  SecurityBearer,
	"PUT /api/bookings/{id}/reject":   SecurityBearer,
}

// GetSecurityLevel returns the security level for a route; unknown routes
// require a bearer token.
func GetSecurityLevel(method, routeTemplate string) SecurityLevel {
	if level, ok := EndpointSecurityConfig[method+" "+routeTemplate]; ok {
		return level
	}
	return SecurityBearer
}
