package store

import "time"

// RunRecord is one archived simulation run.
type RunRecord struct {
	ID        string    `json:"id"`
	EndNode   string    `json:"endNode"`
	Quantity  int       `json:"quantity"`
	DueDate   time.Time `json:"dueDate"`
	Success   bool      `json:"success"`
	Fulfilled int       `json:"fulfilled"`
	RootCause string    `json:"rootCause"`
	TotalCost float64   `json:"totalCost"`
	CreatedAt time.Time `json:"createdAt"`
}

// AlertRecord is one archived alert belonging to a run.
type AlertRecord struct {
	RunID      string    `json:"runId"`
	RuleCode   string    `json:"ruleCode"`
	EntityID   string    `json:"entityId"`
	Severity   string    `json:"severity"`
	Message    string    `json:"message"`
	SLAMinutes int       `json:"slaMinutes"`
	Timestamp  time.Time `json:"timestamp"`
}
