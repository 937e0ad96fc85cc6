package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu            sync.Mutex
	joins         int
	joinRejected  map[string]int
	leaves        map[bool]int
	assignments   int
	results       map[bool]int
	rollovers     int
	subscriptions map[string]int
	emails        map[bool]int
	httpRequests  int
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		joinRejected:  make(map[string]int),
		leaves:        make(map[bool]int),
		results:       make(map[bool]int),
		subscriptions: make(map[string]int),
		emails:        make(map[bool]int),
	}
}

func (m *Mock) IncJoins() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.joins++
}

func (m *Mock) IncJoinRejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.joinRejected[reason]++
}

func (m *Mock) IncLeaves(penalized bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaves[penalized]++
}

func (m *Mock) IncTeamAssignments() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments++
}

func (m *Mock) IncResults(statsUpdated bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[statsUpdated]++
}

func (m *Mock) IncSeasonRollovers() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollovers++
}

func (m *Mock) IncSubscriptionsActivated(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptions[kind]++
}

func (m *Mock) IncEmails(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emails[ok]++
}

func (m *Mock) ObserveHTTPRequest(method, route string, status int, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.httpRequests++
}

// Joins returns the number of times IncJoins was called.
func (m *Mock) Joins() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.joins
}

// JoinRejected returns the rejections recorded for reason.
func (m *Mock) JoinRejected(reason string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.joinRejected[reason]
}

// Leaves returns the leaves recorded with the given penalty flag.
func (m *Mock) Leaves(penalized bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.leaves[penalized]
}

// TeamAssignments returns the number of drafts recorded.
func (m *Mock) TeamAssignments() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assignments
}

// Results returns the results recorded with the given stats flag.
func (m *Mock) Results(statsUpdated bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.results[statsUpdated]
}

// SeasonRollovers returns the number of rollovers recorded.
func (m *Mock) SeasonRollovers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rollovers
}

// SubscriptionsActivated returns activations recorded for kind.
func (m *Mock) SubscriptionsActivated(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subscriptions[kind]
}

// Emails returns the emails recorded with the given outcome.
func (m *Mock) Emails(ok bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.emails[ok]
}

// HTTPRequests returns the number of observed requests.
func (m *Mock) HTTPRequests() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.httpRequests
}
