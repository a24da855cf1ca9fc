package models

// TimeLayout is the second-precision layout used for the
// first_seen and last_seen columns.
const TimeLayout = "2006-01-02 15:04:05"

// Record holds everything we keep about a single server address.
// Timestamps stay formatted strings so they round-trip through the
// CSV file unchanged.
type Record struct {
	Domain    string `json:"domain"`
	FirstSeen string `json:"first_seen"`
	LastSeen  string `json:"last_seen"`
}

// Observation is one (address, domain) pair extracted from a fetch.
// It is never persisted directly.
type Observation struct {
	IP     string `json:"ip_address"`
	Domain string `json:"domain"`
}
