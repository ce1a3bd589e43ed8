package transcript

// Status represents transcript generation status
type Status int

const (
	// None - no transcript record exists yet
	None Status = iota
	// Processing - a generation job was admitted and is running
	Processing
	// Completed - segments were generated and persisted
	Completed
	// Failed - generation failed, error message is recorded
	Failed
)

var (
	statusName = map[Status]string{None: "NONE", Processing: "PROCESSING",
		Completed: "COMPLETED", Failed: "FAILED"}
	nameStatus = map[string]Status{"NONE": None, "PROCESSING": Processing,
		"COMPLETED": Completed, "FAILED": Failed}
)

// Name returns string representation of status
func Name(st Status) string {
	return statusName[st]
}

// From parses status from string, unknown values map to None
func From(st string) Status {
	return nameStatus[st]
}

// Terminal returns true for statuses the pipeline itself never leaves
func Terminal(st Status) bool {
	return st == Completed || st == Failed
}
