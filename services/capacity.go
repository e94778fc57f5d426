package services

import (
	"team-match-system/models"
)

// Capacity reconciles a team's member count against its limit. It never
// holds the authoritative count itself: callers build it from freshly
// fetched team data immediately before a mutating dispatch, and treat the
// team service's rejection as ground truth afterwards.
type Capacity struct {
	MaxMembers     int
	CurrentMembers int
}

// TeamCapacity builds the tracker input from a team as reported by the team
// service (leader + accepted invitations + approved applications).
func TeamCapacity(t *models.Team) Capacity {
	return Capacity{MaxMembers: t.MaxMembers, CurrentMembers: t.CurrentMembers}
}

// RemainingSlots is floored at 0 even if the service ever reports an
// over-full team.
func (c Capacity) RemainingSlots() int {
	if c.CurrentMembers >= c.MaxMembers {
		return 0
	}
	return c.MaxMembers - c.CurrentMembers
}

func (c Capacity) IsFull() bool {
	return c.CurrentMembers >= c.MaxMembers
}

// CheckRoom is the precondition gate run before any Accept/Approve dispatch.
// A full team yields CapacityExceeded so the UI can refetch and retry
// against the authoritative count.
func (c Capacity) CheckRoom() error {
	if c.IsFull() {
		return models.E(models.KindCapacityExceeded,
			"team is full (%d/%d members)", c.CurrentMembers, c.MaxMembers)
	}
	return nil
}
