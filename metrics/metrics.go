// Package metrics exposes Prometheus counters for the learning workflows.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ProgressReports = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "madrasa",
		Name:      "progress_reports_total",
		Help:      "Lesson progress writes by kind (watch, complete, toggle).",
	}, []string{"kind"})

	LessonsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "madrasa",
		Name:      "lessons_completed_total",
		Help:      "Progress records that turned completed.",
	})

	RetakeTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "madrasa",
		Name:      "retake_transitions_total",
		Help:      "Retake requests moved out of pending, by resulting status.",
	}, []string{"status"})

	ExamSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "madrasa",
		Name:      "exam_submissions_total",
		Help:      "Exam attempts stored, by whether they were retakes.",
	}, []string{"retake"})

	CertificatesIssued = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "madrasa",
		Name:      "certificates_issued_total",
		Help:      "Certificate requests approved.",
	})
)

func init() {
	prometheus.MustRegister(ProgressReports, LessonsCompleted, RetakeTransitions, ExamSubmissions, CertificatesIssued)
}

// Handler serves the default registry on a fiber route.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
