package mockapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "rentgrid_mock"

// LoginsTotal counts login attempts by result ("ok" / "rejected").
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// CarMutationsTotal counts inventory writes by operation.
var CarMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "car_mutations_total",
		Help:      "Total number of car create/update/delete operations.",
	},
	[]string{"op"},
)

// BookingStatusChangesTotal counts booking transitions by target status.
var BookingStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "booking_status_changes_total",
		Help:      "Total number of booking status changes, by new status.",
	},
	[]string{"status"},
)
