package common

import "errors"

// ErrModulePaused is returned when the platform configuration has switched the
// requested module off. Every engine checks it before touching state.
var ErrModulePaused = errors.New("module paused")

// PauseView exposes the current pause switches from the platform record.
type PauseView interface {
	IsPaused(module string) bool
}

// Guard rejects the call when the module is paused. A nil view or empty module
// name never blocks.
func Guard(p PauseView, module string) error {
	if p == nil || module == "" {
		return nil
	}
	if p.IsPaused(module) {
		return ErrModulePaused
	}
	return nil
}
