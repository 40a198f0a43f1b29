package lessonscmd

// FeatureGates exposes runtime feature toggles required by lesson command
// handlers. Callers should supply closures that read from the runtime config
// so handlers stay decoupled from configuration while honouring flags.
type FeatureGates struct {
	ImportEnabled   func() bool
	CommandsEnabled func() bool
}

func (g FeatureGates) importEnabled() bool {
	if g.ImportEnabled == nil {
		return true
	}
	return g.ImportEnabled()
}

func (g FeatureGates) commandsEnabled() bool {
	if g.CommandsEnabled == nil {
		return true
	}
	return g.CommandsEnabled()
}
