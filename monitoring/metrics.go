package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	availabilitySubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plansync_availability_submissions_total",
			Help: "Availability submissions accepted, by kind (created|replaced)",
		},
		[]string{"kind"},
	)

	// Submission write conflicts are the data-loss-risk signal: they are
	// surfaced here for operators only, never to the end user.
	submissionConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "plansync_submission_conflicts_total",
			Help: "Availability submission write conflicts detected",
		},
	)

	eventsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "plansync_events_open",
			Help: "Current number of open events",
		},
	)

	notificationTasks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plansync_notification_tasks_total",
			Help: "Notification tasks, by status (enqueued|enqueue_failed|processed|failed)",
		},
		[]string{"status"},
	)
)

func RecordSubmission(replaced bool) {
	kind := "created"
	if replaced {
		kind = "replaced"
	}
	availabilitySubmissions.WithLabelValues(kind).Inc()
}

func RecordSubmissionConflict() {
	submissionConflicts.Inc()
}

func SetOpenEvents(n int) {
	eventsOpen.Set(float64(n))
}

func RecordNotificationTask(status string) {
	notificationTasks.WithLabelValues(status).Inc()
}
