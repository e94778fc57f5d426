package services

import (
	"testing"
	"time"

	"team-match-system/models"
)

var statusNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestResolveContestStatus(t *testing.T) {
	window := DefaultClosingSoonWindow

	cases := []struct {
		name     string
		deadline time.Time
		want     models.ContestStatus
	}{
		{"far deadline is open", statusNow.Add(10 * 24 * time.Hour), models.ContestOpen},
		{"just outside window is open", statusNow.Add(window + time.Second), models.ContestOpen},
		{"inside window is closing soon", statusNow.Add(window), models.ContestClosingSoon},
		{"two days left is closing soon", statusNow.Add(2 * 24 * time.Hour), models.ContestClosingSoon},
		{"deadline this instant is closed", statusNow, models.ContestClosed},
		{"past deadline is closed", statusNow.Add(-time.Second), models.ContestClosed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveContestStatus(statusNow, tc.deadline, window)
			if got != tc.want {
				t.Errorf("ResolveContestStatus(deadline=%s) = %s, want %s", tc.deadline, got, tc.want)
			}
		})
	}
}

func TestDaysLeft(t *testing.T) {
	cases := []struct {
		name     string
		deadline time.Time
		want     int
	}{
		{"two full days", statusNow.Add(2 * 24 * time.Hour), 2},
		{"partial day rounds up", statusNow.Add(36 * time.Hour), 2},
		{"under a day rounds up to one", statusNow.Add(time.Minute), 1},
		{"past deadline is zero", statusNow.Add(-48 * time.Hour), 0},
		{"exactly now is zero", statusNow, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DaysLeft(statusNow, tc.deadline); got != tc.want {
				t.Errorf("DaysLeft(deadline=%s) = %d, want %d", tc.deadline, got, tc.want)
			}
		})
	}
}

func TestAnnotateContest(t *testing.T) {
	t.Run("open contest gets status and days left", func(t *testing.T) {
		c := models.Contest{
			IsActive:             true,
			RegistrationDeadline: statusNow.Add(10 * 24 * time.Hour),
		}
		AnnotateContest(&c, statusNow, DefaultClosingSoonWindow)
		if c.Status != models.ContestOpen {
			t.Errorf("status = %s, want OPEN", c.Status)
		}
		if c.DaysLeft != 10 {
			t.Errorf("daysLeft = %d, want 10", c.DaysLeft)
		}
	})

	t.Run("inactive contest reads closed despite future deadline", func(t *testing.T) {
		c := models.Contest{
			IsActive:             false,
			RegistrationDeadline: statusNow.Add(10 * 24 * time.Hour),
		}
		AnnotateContest(&c, statusNow, DefaultClosingSoonWindow)
		if c.Status != models.ContestClosed {
			t.Errorf("status = %s, want CLOSED", c.Status)
		}
	})

	t.Run("ended contest reads closed", func(t *testing.T) {
		c := models.Contest{
			IsActive:             true,
			RegistrationDeadline: statusNow.Add(10 * 24 * time.Hour),
			EndDate:              statusNow.Add(-time.Hour),
		}
		AnnotateContest(&c, statusNow, DefaultClosingSoonWindow)
		if c.Status != models.ContestClosed {
			t.Errorf("status = %s, want CLOSED", c.Status)
		}
	})

	t.Run("past deadline reads closed with zero days left", func(t *testing.T) {
		c := models.Contest{
			IsActive:             true,
			RegistrationDeadline: statusNow.Add(-time.Hour),
		}
		AnnotateContest(&c, statusNow, DefaultClosingSoonWindow)
		if c.Status != models.ContestClosed {
			t.Errorf("status = %s, want CLOSED", c.Status)
		}
		if c.DaysLeft != 0 {
			t.Errorf("daysLeft = %d, want 0", c.DaysLeft)
		}
	})
}

func TestResolveTeamStatus(t *testing.T) {
	cases := []struct {
		name         string
		isRecruiting bool
		cap          Capacity
		want         models.TeamStatus
	}{
		{"recruiting with room", true, Capacity{MaxMembers: 4, CurrentMembers: 2}, models.TeamRecruiting},
		{"full wins over recruiting", true, Capacity{MaxMembers: 4, CurrentMembers: 4}, models.TeamFull},
		{"full wins over closed", false, Capacity{MaxMembers: 4, CurrentMembers: 4}, models.TeamFull},
		{"not recruiting with room is closed", false, Capacity{MaxMembers: 4, CurrentMembers: 2}, models.TeamClosed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveTeamStatus(tc.isRecruiting, tc.cap); got != tc.want {
				t.Errorf("ResolveTeamStatus(%v, %+v) = %s, want %s", tc.isRecruiting, tc.cap, got, tc.want)
			}
		})
	}
}
