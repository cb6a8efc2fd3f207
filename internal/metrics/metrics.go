// Package metrics содержит счетчики Prometheus сервиса аккаунтов.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegistrationsTotal считает успешные регистрации.
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "user_account_registrations_total",
		Help: "Общее число успешных регистраций",
	})

	// LoginsTotal считает попытки входа по результату.
	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "user_account_logins_total",
		Help: "Общее число попыток входа по результату",
	}, []string{"status"})
)
