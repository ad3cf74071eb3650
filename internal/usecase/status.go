package usecase

import "exposure-debugpanel/internal/domain"

// UpdateStatusWithEvent feeds an event into the COVID status machine.
type UpdateStatusWithEvent struct {
	Event domain.StatusEvent
}

func (UpdateStatusWithEvent) ActionName() string { return "status.updateWithEvent" }

func (a UpdateStatusWithEvent) Update(state *domain.AppState) {
	state.User.CovidStatus = domain.NextStatus(state.User.CovidStatus, a.Event)
}
