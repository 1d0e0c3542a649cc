// Package onboarding derives the checklist state shown on the dashboard
// from the authoritative signals (applications, active participation)
// and the contact's persisted metadata bag.
//
// The metadata step list is duplicated truth: it can lag the records it
// summarizes when fetches land out of order. Derivation here is pure;
// the user feature applies the repair writes MissingSteps reports.
package onboarding

import "github.com/xfoundry/hub/internal/domain/models"

// Step ids.
const (
	StepRegister     = "register"
	StepSelectCohort = "selectCohort"
	StepConnexions   = "connexions"
)

// Signals are the live record-store facts the steps derive from.
type Signals struct {
	HasApplication         bool
	HasActiveParticipation bool
}

// Status is the computed checklist state.
type Status struct {
	Steps     map[string]bool `json:"steps"`
	Completed bool            `json:"completed"`
	Skipped   bool            `json:"skipped"`
}

// Compute derives the checklist from signals plus metadata.
//
// register is always complete (the contact exists). selectCohort is
// complete iff an application or Active participation exists, or the
// metadata already says so (a step once completed never regresses).
// connexions only ever comes from metadata.
func Compute(meta models.OnboardingMetadata, sig Signals) Status {
	steps := map[string]bool{
		StepRegister:     true,
		StepSelectCohort: sig.HasApplication || sig.HasActiveParticipation || meta.HasStep(StepSelectCohort),
		StepConnexions:   meta.HasStep(StepConnexions),
	}
	return Status{
		Steps:     steps,
		Completed: meta.Completed,
		Skipped:   meta.Skipped,
	}
}

// MissingSteps lists step ids the computed status shows complete but the
// metadata list lacks — the repair set. Appending them and recomputing
// yields an empty set, so a second reconciliation pass is a no-op.
func MissingSteps(meta models.OnboardingMetadata, status Status) []string {
	var missing []string
	for _, id := range []string{StepRegister, StepSelectCohort, StepConnexions} {
		if status.Steps[id] && !meta.HasStep(id) {
			missing = append(missing, id)
		}
	}
	return missing
}
