package identity

import "github.com/menuhub/backend/internal/domain/shared"

// SetupStep is the position of a tenant in the restaurant configuration wizard
type SetupStep string

const (
	SetupStepInfo     SetupStep = "info"
	SetupStepBranding SetupStep = "branding"
	SetupStepBranch   SetupStep = "branch"
	SetupStepMenu     SetupStep = "menu"
	SetupStepDone     SetupStep = "done"
)

var setupOrder = []SetupStep{SetupStepInfo, SetupStepBranding, SetupStepBranch, SetupStepMenu, SetupStepDone}

func (s SetupStep) index() int {
	for i, step := range setupOrder {
		if step == s {
			return i
		}
	}
	return -1
}

// IsValid checks if the step is known
func (s SetupStep) IsValid() bool {
	return s.index() >= 0
}

// Next returns the step after s; done is its own successor
func (s SetupStep) Next() SetupStep {
	i := s.index()
	if i < 0 || i == len(setupOrder)-1 {
		return SetupStepDone
	}
	return setupOrder[i+1]
}

// CompleteSetupStep marks step as finished. Completing an already passed step is a no-op,
// skipping ahead is rejected.
func (t *Tenant) CompleteSetupStep(step SetupStep) error {
	if !step.IsValid() || step == SetupStepDone {
		return shared.NewDomainError("INVALID_SETUP_STEP", "Paso de configuración inválido")
	}
	current := t.SetupStep.index()
	target := step.index()
	if target < current {
		return nil
	}
	if target > current {
		return shared.NewDomainError("SETUP_STEP_OUT_OF_ORDER", "Completa los pasos anteriores primero")
	}
	t.SetupStep = step.Next()
	t.IncrementVersion()
	return nil
}

// SetupCompleted reports whether the wizard reached the last step
func (t *Tenant) SetupCompleted() bool {
	return t.SetupStep == SetupStepDone
}
