package models

// AutomationKind names a scheduled trigger.
type AutomationKind string

const (
	AutomationCollection   AutomationKind = "collection"
	AutomationDistribution AutomationKind = "distribution"
	AutomationPenalty      AutomationKind = "penalty"
)

func (k AutomationKind) Valid() bool {
	switch k {
	case AutomationCollection, AutomationDistribution, AutomationPenalty:
		return true
	}
	return false
}

// Schedule offsets relative to the start of each circle month.
const (
	DistributionOffsetSeconds = 25 * 24 * 60 * 60
	PenaltyOffsetSeconds      = 27 * 24 * 60 * 60
)

// AutomationState is the global scheduler configuration.
type AutomationState struct {
	Authority   string `json:"authority"`
	QueueRef    string `json:"queue_ref"`
	Enabled     bool   `json:"enabled"`
	ActiveJobs  uint32 `json:"active_jobs"`
	MinInterval int64  `json:"min_interval"`
	LastCheck   int64  `json:"last_check"`
}

// CircleAutomation holds one circle's trigger schedules and how far each has
// been consumed.
type CircleAutomation struct {
	CircleID             string  `json:"circle_id"`
	JobRef               string  `json:"job_ref"`
	AutoCollect          bool    `json:"auto_collect"`
	AutoDistribute       bool    `json:"auto_distribute"`
	AutoPenalty          bool    `json:"auto_penalty"`
	ContributionSchedule []int64 `json:"contribution_schedule"`
	DistributionSchedule []int64 `json:"distribution_schedule"`
	PenaltySchedule      []int64 `json:"penalty_schedule"`
	NextCollection       int     `json:"next_collection"`
	NextDistribution     int     `json:"next_distribution"`
	NextPenalty          int     `json:"next_penalty"`
	LastCollection       int64   `json:"last_collection"`
	LastDistribution     int64   `json:"last_distribution"`
	LastPenalty          int64   `json:"last_penalty"`
	CircleCreatedAt      int64   `json:"circle_created_at"`
}

// Slot returns the enable flag, the schedule, the consumed pointer and the
// last-trigger time for kind. The pointers let callers advance them in place.
func (a *CircleAutomation) Slot(kind AutomationKind) (enabled bool, schedule []int64, next *int, last *int64) {
	switch kind {
	case AutomationCollection:
		return a.AutoCollect, a.ContributionSchedule, &a.NextCollection, &a.LastCollection
	case AutomationDistribution:
		return a.AutoDistribute, a.DistributionSchedule, &a.NextDistribution, &a.LastDistribution
	case AutomationPenalty:
		return a.AutoPenalty, a.PenaltySchedule, &a.NextPenalty, &a.LastPenalty
	}
	return false, nil, nil, nil
}

type AutomationEventKind string

const (
	EventContributionCollection AutomationEventKind = "contribution_collection"
	EventPayoutDistribution     AutomationEventKind = "payout_distribution"
	EventPenaltyEnforcement     AutomationEventKind = "penalty_enforcement"
	EventScheduleUpdate         AutomationEventKind = "schedule_update"
)

// AutomationEvent records one trigger attempt for observability.
type AutomationEvent struct {
	ID        string              `json:"id"`
	CircleID  string              `json:"circle_id"`
	Kind      AutomationEventKind `json:"kind"`
	Month     int                 `json:"month"`
	Timestamp int64               `json:"timestamp"`
	Success   bool                `json:"success"`
	Error     string              `json:"error,omitempty"`
}
