package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	TicksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_ticks_total",
		Help: "Количество тиков планировщика по результату",
	}, []string{"result"})
	TickSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scheduler_tick_seconds",
		Help:    "Длительность тика",
		Buckets: prometheus.DefBuckets,
	})
	QuestionRerollsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_question_rerolls_total",
		Help: "Сколько раз выбирался новый вопрос дня",
	})
	UsersUpdatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_users_updated_total",
		Help: "Записанные документы пользователей",
	})
	UsersSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_users_skipped_total",
		Help: "Пропущенные пользователи, уже отправившие ответ",
	})
	NotificationsDueTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_notifications_due_total",
		Help: "Пользователи, у которых наступил час уведомления",
	})
	EventsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_events_published_total",
		Help: "Опубликованные события NotificationDue",
	}, []string{"status"})

	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Длительность сетевых запросов",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Количество сетевых запросов",
	}, []string{"component", "operation", "target", "status"})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		TicksTotal,
		TickSeconds,
		QuestionRerollsTotal,
		UsersUpdatedTotal,
		UsersSkippedTotal,
		NotificationsDueTotal,
		EventsPublishedTotal,
		NetworkRequestDuration,
		NetworkRequestTotal,
	)
}

// ObserveNetworkRequest записывает длительность и статус сетевого запроса.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	if target == "" {
		target = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}

// ObserveTick записывает итог и длительность тика.
func ObserveTick(start time.Time, result string) {
	TicksTotal.WithLabelValues(result).Inc()
	TickSeconds.Observe(time.Since(start).Seconds())
}

// ObservePublish учитывает попытку публикации события.
func ObservePublish(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	EventsPublishedTotal.WithLabelValues(status).Inc()
}
