package models

import "time"

// HealthStatus enumerates the tracked health states of a cow.
type HealthStatus string

const (
	StatusHealthy    HealthStatus = "healthy"
	StatusMonitoring HealthStatus = "monitoring"
	StatusTreatment  HealthStatus = "treatment"
)

// SessionTag identifies which milking session a production record belongs to.
type SessionTag string

const (
	SessionMorning SessionTag = "morning"
	SessionNoon    SessionTag = "noon"
	SessionEvening SessionTag = "evening"
)

// Cow describes one animal in the herd.
type Cow struct {
	ID           string       `json:"id"`
	Identifier   string       `json:"identifier"`
	Name         string       `json:"name"`
	HealthStatus HealthStatus `json:"healthStatus"`
}

// ProductionRecord captures the milk yield of one milking session.
// Records are immutable once ingested; aggregation never mutates them.
type ProductionRecord struct {
	CowID   string     `json:"cowId"`
	Date    time.Time  `json:"date"`
	Liters  float64    `json:"liters"`
	Session SessionTag `json:"session,omitempty"`
}

// RecordDate returns the session date for window filtering.
func (r ProductionRecord) RecordDate() time.Time { return r.Date }

// HealthCase captures a veterinary incident opened against a cow.
type HealthCase struct {
	CowID    string    `json:"cowId"`
	OpenDate time.Time `json:"openDate"`
	Status   string    `json:"status"`
	Risk     string    `json:"riskLevel"`
}

// RecordDate returns the case open date for window filtering.
func (h HealthCase) RecordDate() time.Time { return h.OpenDate }

// Snapshot bundles the raw collections the analytics layer works from.
// Collections may be empty and may reference unknown cow ids.
type Snapshot struct {
	Cows       []Cow
	Production []ProductionRecord
	Health     []HealthCase
}

// CowIndex builds an id lookup over the snapshot's cows.
func (s Snapshot) CowIndex() map[string]Cow {
	idx := make(map[string]Cow, len(s.Cows))
	for _, c := range s.Cows {
		idx[c.ID] = c
	}
	return idx
}
