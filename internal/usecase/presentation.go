package usecase

import (
	"context"

	"exposure-debugpanel/internal/core"
	"exposure-debugpanel/internal/domain"
)

// OKAlert builds an alert with a single acknowledgement button.
func OKAlert(title, message string) domain.Alert {
	return domain.Alert{Title: title, Message: message, Actions: []string{"Ok"}}
}

// ShowAlert presents a modal alert.
type ShowAlert struct {
	Alert domain.Alert
}

func (ShowAlert) ActionName() string { return "alert.show" }

func (a ShowAlert) SideEffect(ctx context.Context, ec *core.Context) error {
	return ec.Dependencies().Presenter.ShowAlert(ctx, a.Alert)
}

// ShowScreen presents a full screen.
type ShowScreen struct {
	Screen domain.Screen
}

func (ShowScreen) ActionName() string { return "screen.show" }

func (a ShowScreen) SideEffect(ctx context.Context, ec *core.Context) error {
	return ec.Dependencies().Presenter.ShowScreen(ctx, a.Screen)
}

// HideScreen dismisses a screen shown by ShowScreen.
type HideScreen struct {
	ID domain.ScreenID
}

func (HideScreen) ActionName() string { return "screen.hide" }

func (a HideScreen) SideEffect(ctx context.Context, ec *core.Context) error {
	return ec.Dependencies().Presenter.HideScreen(ctx, a.ID)
}
