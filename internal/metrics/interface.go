package metrics

// Metrics defines the interface for collecting application metrics.
type Metrics interface {
	IncJoins()
	IncJoinRejected(reason string)
	IncLeaves(penalized bool)
	IncTeamAssignments()
	IncResults(statsUpdated bool)
	IncSeasonRollovers()
	IncSubscriptionsActivated(kind string)
	IncEmails(ok bool)
	ObserveHTTPRequest(method, route string, status int, seconds float64)
}
