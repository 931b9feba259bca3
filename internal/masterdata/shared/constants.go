package shared

const (
	// Default pagination
	DefaultPage  = 1
	DefaultLimit = 50

	// Status values shared by brands, dealers and other brands.
	StatusActive   = "active"
	StatusInactive = "inactive"
)
