package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// Service holds all the Prometheus metrics for the application.
type Service struct {
	Joins                  prometheus.Counter
	JoinRejected           *prometheus.CounterVec
	Leaves                 *prometheus.CounterVec
	TeamAssignments        prometheus.Counter
	Results                *prometheus.CounterVec
	SeasonRollovers        prometheus.Counter
	SubscriptionsActivated *prometheus.CounterVec
	Emails                 *prometheus.CounterVec
	HTTPDuration           *prometheus.HistogramVec
}

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		Joins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fulvo_match_joins_total",
			Help: "The total number of successful match joins.",
		}),
		JoinRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fulvo_match_joins_rejected_total",
			Help: "Match joins rejected by a business rule.",
		}, []string{"reason"}),
		Leaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fulvo_match_leaves_total",
			Help: "Players leaving a match, split by late-leave penalty.",
		}, []string{"penalized"}),
		TeamAssignments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fulvo_team_assignments_total",
			Help: "The total number of snake drafts run.",
		}),
		Results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fulvo_match_results_total",
			Help: "Recorded match results, split by whether rankings changed.",
		}, []string{"stats_updated"}),
		SeasonRollovers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fulvo_season_rollovers_total",
			Help: "The total number of seasons closed.",
		}),
		SubscriptionsActivated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fulvo_subscriptions_activated_total",
			Help: "Subscriptions activated from approved payments.",
		}, []string{"kind"}),
		Emails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fulvo_emails_total",
			Help: "Transactional emails attempted, split by outcome.",
		}, []string{"ok"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fulvo_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		s.Joins,
		s.JoinRejected,
		s.Leaves,
		s.TeamAssignments,
		s.Results,
		s.SeasonRollovers,
		s.SubscriptionsActivated,
		s.Emails,
		s.HTTPDuration,
	)

	return s
}

func (s *Service) IncJoins() {
	s.Joins.Inc()
}

func (s *Service) IncJoinRejected(reason string) {
	s.JoinRejected.WithLabelValues(reason).Inc()
}

func (s *Service) IncLeaves(penalized bool) {
	s.Leaves.WithLabelValues(strconv.FormatBool(penalized)).Inc()
}

func (s *Service) IncTeamAssignments() {
	s.TeamAssignments.Inc()
}

func (s *Service) IncResults(statsUpdated bool) {
	s.Results.WithLabelValues(strconv.FormatBool(statsUpdated)).Inc()
}

func (s *Service) IncSeasonRollovers() {
	s.SeasonRollovers.Inc()
}

func (s *Service) IncSubscriptionsActivated(kind string) {
	s.SubscriptionsActivated.WithLabelValues(kind).Inc()
}

func (s *Service) IncEmails(ok bool) {
	s.Emails.WithLabelValues(strconv.FormatBool(ok)).Inc()
}

func (s *Service) ObserveHTTPRequest(method, route string, status int, seconds float64) {
	s.HTTPDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(seconds)
}

// Middleware records the duration of every routed request.
func Middleware(m Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start).Seconds())
	}
}
