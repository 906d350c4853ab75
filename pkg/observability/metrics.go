package observability

import (
	"context"
	"errors"

	"github.com/aretw0/wheelsim/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects Prometheus series for one simulator.
type Metrics struct {
	received    *prometheus.CounterVec
	rejected    *prometheus.CounterVec
	sent        *prometheus.CounterVec
	transitions *prometheus.CounterVec
	state       *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		received: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wheelsim_messages_received_total",
			Help: "Messages received from the BCI, by kind.",
		}, []string{"kind"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wheelsim_messages_rejected_total",
			Help: "Inputs discarded, by reason (decode or mismatch) and state.",
		}, []string{"reason", "state"}),
		sent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wheelsim_messages_sent_total",
			Help: "Messages sent to the BCI, by announced state.",
		}, []string{"state"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wheelsim_transitions_total",
			Help: "State changes, by source and destination.",
		}, []string{"from", "to"}),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wheelsim_state",
			Help: "1 for the current state, 0 otherwise.",
		}, []string{"state"}),
	}

	for _, c := range []prometheus.Collector{m.received, m.rejected, m.sent, m.transitions, m.state} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	m.setState(domain.StateIdle)
	return m, nil
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnReceive: func(_ context.Context, e *domain.MessageEvent) {
			m.received.WithLabelValues(string(e.Kind)).Inc()
		},
		OnReject: func(_ context.Context, e *domain.RejectEvent) {
			m.rejected.WithLabelValues(RejectReason(e.Err), string(e.State)).Inc()
		},
		OnSend: func(_ context.Context, e *domain.MessageEvent) {
			m.sent.WithLabelValues(string(e.State)).Inc()
		},
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.transitions.WithLabelValues(string(e.From), string(e.To)).Inc()
			m.setState(e.To)
		},
	}
}

func (m *Metrics) setState(current domain.StateID) {
	for _, id := range domain.States {
		v := 0.0
		if id == current {
			v = 1
		}
		m.state.WithLabelValues(string(id)).Set(v)
	}
}

// RejectReason classifies a rejection for labels and logs.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrDecode):
		return "decode"
	case errors.Is(err, domain.ErrProtocolMismatch):
		return "mismatch"
	}
	return "other"
}
