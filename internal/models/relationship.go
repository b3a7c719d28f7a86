package models

import (
	"fmt"
	"time"
)

// RelationshipStatus is the viewer's relationship to another user
type RelationshipStatus string

const (
	RelationshipNone            RelationshipStatus = "none"
	RelationshipPendingOutgoing RelationshipStatus = "pending_outgoing"
	RelationshipFriends         RelationshipStatus = "friends"
)

// RelationshipTransitions lists the statuses reachable from each status.
// A sent request may land directly on friends when the other side had
// already asked.
var RelationshipTransitions = map[RelationshipStatus][]RelationshipStatus{
	RelationshipNone:            {RelationshipPendingOutgoing, RelationshipFriends},
	RelationshipPendingOutgoing: {RelationshipNone, RelationshipFriends},
	RelationshipFriends:         {RelationshipNone},
}

// ParseRelationshipStatus converts a stored or transmitted value into a status
func ParseRelationshipStatus(s string) (RelationshipStatus, error) {
	switch RelationshipStatus(s) {
	case RelationshipNone, RelationshipPendingOutgoing, RelationshipFriends:
		return RelationshipStatus(s), nil
	case "":
		return RelationshipNone, nil
	default:
		return "", fmt.Errorf("unknown relationship status %q", s)
	}
}

// CanTransitionTo reports whether moving from s to target is a valid transition.
// Staying in the same status is always allowed.
func (s RelationshipStatus) CanTransitionTo(target RelationshipStatus) bool {
	if s == target {
		return true
	}
	for _, valid := range RelationshipTransitions[s] {
		if valid == target {
			return true
		}
	}
	return false
}

// IsFriend reports whether the status is a confirmed friendship
func (s RelationshipStatus) IsFriend() bool {
	return s == RelationshipFriends
}

// Relationship is the authoritative relationship record for one subject user
type Relationship struct {
	Status       RelationshipStatus `json:"status"`
	FriendsSince *time.Time         `json:"friendsSince,omitempty"`
}

// Normalize fills an empty status and drops FriendsSince unless the users are friends
func (r Relationship) Normalize() Relationship {
	if r.Status == "" {
		r.Status = RelationshipNone
	}
	if r.Status != RelationshipFriends {
		r.FriendsSince = nil
	}
	return r
}
