package scheduler

import "github.com/julianstephens/tally/internal/models"

type checkinKey struct {
	challengeID string
	dateKey     string
}

// CheckinIndex looks up check-ins by (challenge ID, YYYY-MM-DD date).
//
// Nothing prevents several check-ins for the same key. When that happens the
// index keeps the last one seen in input order and earlier ones are not
// reachable through it.
type CheckinIndex struct {
	byKey map[checkinKey]models.Checkin
}

// IndexCheckins builds an index over checkins.
func IndexCheckins(checkins []models.Checkin) CheckinIndex {
	idx := CheckinIndex{byKey: make(map[checkinKey]models.Checkin, len(checkins))}
	for _, c := range checkins {
		idx.byKey[checkinKey{challengeID: c.ChallengeID, dateKey: c.CheckDate}] = c
	}
	return idx
}

// Get returns the check-in recorded for the challenge on dateKey.
func (i CheckinIndex) Get(challengeID, dateKey string) (models.Checkin, bool) {
	c, ok := i.byKey[checkinKey{challengeID: challengeID, dateKey: dateKey}]
	return c, ok
}

// Len returns the number of distinct keys.
func (i CheckinIndex) Len() int {
	return len(i.byKey)
}
