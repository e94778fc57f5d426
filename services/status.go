package services

import (
	"time"

	"team-match-system/models"
)

// DefaultClosingSoonWindow is how close to the registration deadline a
// contest flips to CLOSING_SOON.
const DefaultClosingSoonWindow = 3 * 24 * time.Hour

// ResolveContestStatus derives a contest's lifecycle status from the clock
// and its registration deadline. Deterministic: no hidden global clock.
func ResolveContestStatus(now, registrationDeadline time.Time, window time.Duration) models.ContestStatus {
	if !now.Before(registrationDeadline) {
		return models.ContestClosed
	}
	if registrationDeadline.Sub(now) <= window {
		return models.ContestClosingSoon
	}
	return models.ContestOpen
}

// DaysLeft is the whole days remaining until the deadline, rounded up and
// floored at 0 for display. 0 implies CLOSED.
func DaysLeft(now, registrationDeadline time.Time) int {
	diff := registrationDeadline.Sub(now)
	if diff <= 0 {
		return 0
	}
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// AnnotateContest fills the computed Status and DaysLeft fields on read.
// Inactive or ended contests always read as CLOSED regardless of deadline.
func AnnotateContest(c *models.Contest, now time.Time, window time.Duration) {
	c.DaysLeft = DaysLeft(now, c.RegistrationDeadline)
	if !c.IsActive || (!c.EndDate.IsZero() && !now.Before(c.EndDate)) {
		c.Status = models.ContestClosed
		return
	}
	c.Status = ResolveContestStatus(now, c.RegistrationDeadline, window)
}

// ResolveTeamStatus is the team-shaped resolver: recruiting flag plus the
// capacity tracker's output instead of dates. Kept separate from the contest
// resolver on purpose; the two state spaces only look alike.
func ResolveTeamStatus(isRecruiting bool, cap Capacity) models.TeamStatus {
	if cap.IsFull() {
		return models.TeamFull
	}
	if !isRecruiting {
		return models.TeamClosed
	}
	return models.TeamRecruiting
}

// AnnotateTeam fills the computed Status field on read.
func AnnotateTeam(t *models.Team) {
	t.Status = ResolveTeamStatus(t.IsRecruiting, TeamCapacity(t))
}
