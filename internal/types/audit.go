package types

// RunStatus is the tri-state outcome reported to the audit log endpoint.
type RunStatus int

// Run status codes expected by the audit endpoint.
const (
	RunStarted   RunStatus = 0
	RunSucceeded RunStatus = 1
	RunFailed    RunStatus = 2
)

// RunLogEntry is the audit record posted after each scheduler tick.
// Write-only from this system's perspective.
type RunLogEntry struct {
	LastRunTime    string    `json:"lastRunTime"`
	RunStatus      RunStatus `json:"runStatus"`
	RegulationSite string    `json:"regulationSite"`
	ErrorMessage   string    `json:"errorMessage"`
}
