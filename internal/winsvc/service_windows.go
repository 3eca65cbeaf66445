//go:build windows

package winsvc

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/eventlog"
	"golang.org/x/sys/windows/svc/mgr"
)

// eventLogHook forwards logrus entries to the Windows Event Log, mapping
// levels to event types.
type eventLogHook struct {
	elog      *eventlog.Log
	formatter logrus.Formatter
}

func (h *eventLogHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *eventLogHook) Fire(e *logrus.Entry) error {
	msg, err := h.formatter.Format(e)
	if err != nil {
		return err
	}
	switch e.Level {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		return h.elog.Error(3, string(msg))
	case logrus.WarnLevel:
		return h.elog.Warning(2, string(msg))
	default:
		return h.elog.Info(1, string(msg))
	}
}

// SetupEventLog opens the named event log source and routes the standard
// logrus logger to it. Event log entries carry their own timestamps.
func SetupEventLog(name string) {
	elog, err := eventlog.Open(name)
	if err != nil {
		return // keep stderr logging
	}
	logrus.AddHook(&eventLogHook{
		elog:      elog,
		formatter: &logrus.TextFormatter{DisableTimestamp: true, DisableColors: true},
	})
	logrus.SetOutput(io.Discard)
}

// IsWindowsService reports whether the process was started by the SCM.
func IsWindowsService() bool {
	ok, err := svc.IsWindowsService()
	return err == nil && ok
}

type handler struct {
	name string
	run  func(ctx context.Context) error
}

func (h *handler) Execute(_ []string, req <-chan svc.ChangeRequest, status chan<- svc.Status) (bool, uint32) {
	log := logrus.WithField("service", h.name)
	status <- svc.Status{State: svc.StartPending}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- h.run(ctx) }()

	status <- svc.Status{State: svc.Running, Accepts: svc.AcceptStop | svc.AcceptShutdown}

	for {
		select {
		case err := <-done:
			status <- svc.Status{State: svc.StopPending}
			if err != nil {
				log.WithError(err).Error("service stopped with error")
				return false, 1
			}
			return false, 0

		case cr := <-req:
			switch cr.Cmd {
			case svc.Interrogate:
				status <- cr.CurrentStatus
			case svc.Stop, svc.Shutdown:
				status <- svc.Status{State: svc.StopPending}
				cancel()
				select {
				case <-done:
				case <-time.After(stopTimeout):
					log.Warn("timed out waiting for graceful shutdown")
				}
				return false, 0
			}
		}
	}
}

// RunService runs run as the named service until the SCM stops it. run
// receives a context cancelled on stop or shutdown.
func RunService(name string, run func(ctx context.Context) error) error {
	return svc.Run(name, &handler{name: name, run: run})
}

// Install registers the running executable as an auto-start service that
// restarts on failure, and creates its event log source.
func Install(spec Spec) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("connect to SCM: %w", err)
	}
	defer m.Disconnect()

	if s, err := m.OpenService(spec.Name); err == nil {
		s.Close()
		return fmt.Errorf("service %s already exists", spec.Name)
	}

	s, err := m.CreateService(spec.Name, exe, mgr.Config{
		DisplayName: spec.DisplayName,
		Description: spec.Description,
		StartType:   mgr.StartAutomatic,
	}, spec.Args...)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}
	defer s.Close()

	_ = s.SetRecoveryActions([]mgr.RecoveryAction{
		{Type: mgr.ServiceRestart, Delay: 10 * time.Second},
		{Type: mgr.ServiceRestart, Delay: 30 * time.Second},
		{Type: mgr.NoAction},
	}, uint32((24 * time.Hour).Seconds()))

	if err := eventlog.InstallAsEventCreate(spec.Name, eventlog.Error|eventlog.Warning|eventlog.Info); err != nil {
		logrus.WithField("service", spec.Name).WithError(err).Warn("could not install event log source")
	}
	return nil
}

// Uninstall stops the named service if it is running, deletes it and
// removes its event log source.
func Uninstall(name string) error {
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("connect to SCM: %w", err)
	}
	defer m.Disconnect()

	s, err := m.OpenService(name)
	if err != nil {
		return fmt.Errorf("open service %s: %w", name, err)
	}
	defer s.Close()

	stopAndWait(s, 5*time.Second)

	if err := s.Delete(); err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	_ = eventlog.Remove(name)
	return nil
}

func stopAndWait(s *mgr.Service, timeout time.Duration) {
	st, err := s.Query()
	if err != nil || st.State == svc.Stopped {
		return
	}
	_, _ = s.Control(svc.Stop)
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		time.Sleep(500 * time.Millisecond)
		if st, err = s.Query(); err != nil || st.State == svc.Stopped {
			return
		}
	}
}
