package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"exposure-debugpanel/internal/adapter/secondary/bus"
	"exposure-debugpanel/internal/adapter/secondary/exposure"
	"exposure-debugpanel/internal/adapter/secondary/housekeeping"
	"exposure-debugpanel/internal/adapter/secondary/notification"
	"exposure-debugpanel/internal/adapter/secondary/process"
	"exposure-debugpanel/internal/adapter/secondary/repository"
	"exposure-debugpanel/internal/config"
	"exposure-debugpanel/internal/core"
	"exposure-debugpanel/internal/debugmenu"
	"exposure-debugpanel/internal/domain"
	"exposure-debugpanel/internal/logging"
)

// runtime is the wired application behind every command.
type runtime struct {
	cfg           config.Config
	store         *core.Store
	panel         *debugmenu.Panel
	bus           *bus.Bus
	notifications *notification.Scheduler
	terminator    *process.Terminator

	ctx    context.Context
	cancel context.CancelFunc
}

func newRuntime(cfg config.Config) (*runtime, error) {
	repo, err := repository.NewFileRepository(cfg.State.Path)
	if err != nil {
		return nil, err
	}
	keeper, err := housekeeping.NewFilesystem(cfg.Housekeeping.DataDir)
	if err != nil {
		return nil, err
	}

	b := bus.New()
	scheduler := notification.NewScheduler(b.DeliverNotification)
	terminator := process.NewTerminator()

	deps := &domain.Dependencies{
		PushNotifications:     scheduler,
		ExposureNotifications: exposure.NewManager(cfg.Exposure.DenyAuthorization, nil),
		Configuration: exposure.StaticConfiguration{
			MinimumBuildVersion: cfg.Exposure.MinimumBuildVersion,
			DetectionPeriod:     cfg.Exposure.DetectionPeriod,
		},
		Detector:     exposure.NewDetector(cfg.Exposure.SimulateMatchEvery, nil),
		Presenter:    bus.NewPresenter(b),
		Analytics:    bus.NewAnalyticsSender(b),
		Housekeeper:  keeper,
		Terminator:   terminator,
		Capabilities: domain.Capabilities{ExposureNotification: cfg.Capabilities.ExposureNotification},
		RestartDelay: cfg.Debug.RestartDelay,
	}

	store, err := core.NewStore(repo, deps)
	if err != nil {
		_ = b.Close()
		return nil, err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	store.Start(ctx)

	logging.Debugf("runtime ready: state=%s capabilities=%+v", repo.Path(), deps.Capabilities)
	return &runtime{
		cfg:           cfg,
		store:         store,
		panel:         debugmenu.NewPanel(store),
		bus:           b,
		notifications: scheduler,
		terminator:    terminator,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// printReports writes alerts, screens and delivered notifications to w.
func (r *runtime) printReports(w io.Writer) error {
	if err := bus.Subscribe(r.ctx, r.bus, bus.TopicAlerts, func(a domain.Alert) {
		fmt.Fprintln(w, renderAlert(a))
	}); err != nil {
		return err
	}
	if err := bus.Subscribe(r.ctx, r.bus, bus.TopicScreens, func(ev bus.ScreenEvent) {
		fmt.Fprintln(w, renderScreen(ev))
	}); err != nil {
		return err
	}
	if err := bus.Subscribe(r.ctx, r.bus, bus.TopicNotifications, func(n domain.LocalNotification) {
		fmt.Fprintln(w, renderNotification(n))
	}); err != nil {
		return err
	}
	return bus.Subscribe(r.ctx, r.bus, bus.TopicAnalytics, func(info domain.OperationalInfo) {
		logging.Infof("operational info sent: %+v", info)
	})
}

// Close waits for running workflows and releases everything.
func (r *runtime) Close() {
	r.store.Wait()
	r.notifications.Close()
	r.cancel()
	if err := r.bus.Close(); err != nil {
		logging.Warnf("close bus: %v", err)
	}
	_ = logging.Sync()
}
