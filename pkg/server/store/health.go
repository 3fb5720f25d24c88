package store

// HealthStore reports on the database behind the stores
type HealthStore interface {
	// CheckConnectivity runs a trivial query
	CheckConnectivity() error

	// Dialect names the database engine (postgres, sqlite)
	Dialect() string
}
