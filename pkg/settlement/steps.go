package settlement

// Step is the current position in the linear settlement sequence. Transitions
// move forward only; the failing step is carried on the error so a partial
// outcome like "approved but not paid" is a concrete, testable value.
type Step int

const (
	StepNotConnected Step = iota
	StepConnected
	StepNetworkVerified
	StepApproved
	StepPaid
	StepConfirmed
)

var stepNames = map[Step]string{
	StepNotConnected:    "not_connected",
	StepConnected:       "connected",
	StepNetworkVerified: "network_verified",
	StepApproved:        "approved",
	StepPaid:            "paid",
	StepConfirmed:       "confirmed",
}

func (s Step) String() string {
	if name, exists := stepNames[s]; exists {
		return name
	}
	return "unknown"
}

// StepFunc observes each step as the settlement enters it.
type StepFunc func(step Step)
