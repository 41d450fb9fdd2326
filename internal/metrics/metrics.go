package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	UsersRegistered  prometheus.Counter
	LotteriesCreated prometheus.Counter
	BallotsSubmitted prometheus.Counter
	LotteriesClosed  *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "lottery_users_registered_total",
			Help: "Total number of users registered",
		}),
		LotteriesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "lottery_lotteries_created_total",
			Help: "Total number of lotteries created",
		}),
		BallotsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "lottery_ballots_submitted_total",
			Help: "Total number of ballots submitted",
		}),
		LotteriesClosed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lottery_lotteries_closed_total",
			Help: "Total number of lotteries closed, by whether a winner was drawn",
		}, []string{"outcome"}),
	}
}

// IncUsersRegistered increments the registered users counter by 1
func (m *Metrics) IncUsersRegistered() {
	if m == nil {
		return
	}
	m.UsersRegistered.Inc()
}

// IncLotteriesCreated increments the created lotteries counter by 1
func (m *Metrics) IncLotteriesCreated() {
	if m == nil {
		return
	}
	m.LotteriesCreated.Inc()
}

// IncBallotsSubmitted increments the submitted ballots counter by 1
func (m *Metrics) IncBallotsSubmitted() {
	if m == nil {
		return
	}
	m.BallotsSubmitted.Inc()
}

// IncLotteriesClosed records a draw; hasWinner is false when no ballots existed
func (m *Metrics) IncLotteriesClosed(hasWinner bool) {
	if m == nil {
		return
	}
	outcome := "no_winner"
	if hasWinner {
		outcome = "winner"
	}
	m.LotteriesClosed.WithLabelValues(outcome).Inc()
}
