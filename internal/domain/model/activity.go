package model

import "time"

// ActivityType labels what a participant did to earn points. The ledger
// carries it as metadata only; point values are decided by the caller
// before submission.
type ActivityType string

const (
	ActivityTypeStream       ActivityType = "stream"
	ActivityTypeUpload       ActivityType = "upload"
	ActivityTypeMilestone100 ActivityType = "milestone_100"
	ActivityTypeLike         ActivityType = "like"
	ActivityTypeShare        ActivityType = "share"
)

// Valid reports whether the activity type is one of the known values.
func (a ActivityType) Valid() bool {
	switch a {
	case ActivityTypeStream, ActivityTypeUpload, ActivityTypeMilestone100, ActivityTypeLike, ActivityTypeShare:
		return true
	}
	return false
}

// Activity is an audit record of a single points accrual.
type Activity struct {
	ID         int64
	Identity   string
	Type       ActivityType
	Points     uint64
	RecordedAt time.Time
}
