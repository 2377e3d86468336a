package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mazao_logins_total",
		Help: "Login attempts by outcome.",
	}, []string{"status"})

	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mazao_registrations_total",
		Help: "Successful farmer self-registrations.",
	})

	CropWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mazao_crop_writes_total",
		Help: "Crop create/update/delete operations by kind.",
	}, []string{"op"})

	AccessDeniedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mazao_access_denied_total",
		Help: "Requests refused by the ownership policy.",
	})

	UsersTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mazao_users_total",
		Help: "Total number of registered principals in the database.",
	})

	CropsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mazao_crops_total",
		Help: "Total number of crop records in the database.",
	})
)
