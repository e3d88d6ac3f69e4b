package lifecycle

// Logger is the subset of logging.Logger used by LogObserver.
type Logger interface {
	Info(msg string, args ...any)
}

// LogObserver records every transition as a structured log entry.
func LogObserver(logger Logger) Observer {
	return ObserverFunc(func(ev Event) {
		logger.Info("unit state changed",
			"unit", ev.Unit,
			"state", ev.State(),
		)
	})
}

// Multi fans one transition out to several observers in order.
type Multi []Observer

// OnTransition implements Observer.
func (m Multi) OnTransition(ev Event) {
	for _, o := range m {
		if o != nil {
			o.OnTransition(ev)
		}
	}
}
