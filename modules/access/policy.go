// Package access holds the authorization rules for events. The functions are
// pure: callers load the event and the principal, then ask.
package access

import (
	"strings"

	"sportmeet/core/errors"

	"github.com/google/uuid"
)

type Role int

const (
	RoleParticipant Role = iota
	RoleHost
)

func (r Role) String() string {
	if r == RoleHost {
		return "host"
	}
	return "participant"
}

// ParseRole maps the role claim to a Role. Anything unrecognized is a
// participant.
func ParseRole(s string) Role {
	if strings.ToLower(strings.TrimSpace(s)) == "host" {
		return RoleHost
	}
	return RoleParticipant
}

// Principal is the authenticated caller.
type Principal struct {
	ID   uuid.UUID
	Role Role
}

// Owned is anything with a host.
type Owned interface {
	OwnerID() uuid.UUID
}

func CanCreateEvent(p Principal) bool {
	return p.Role == RoleHost
}

func IsOwner(o Owned, userID uuid.UUID) bool {
	if o == nil || userID == uuid.Nil {
		return false
	}
	return o.OwnerID() == userID
}

// SameIdentity compares two identifiers in whatever string form they arrived.
func SameIdentity(a, b string) bool {
	ua, errA := uuid.Parse(strings.TrimSpace(a))
	ub, errB := uuid.Parse(strings.TrimSpace(b))
	if errA == nil && errB == nil {
		return ua == ub
	}
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func CanViewParticipants(o Owned, p Principal) bool {
	return IsOwner(o, p.ID)
}

func CanRegister(o Owned, p Principal) bool {
	return !IsOwner(o, p.ID)
}

func CanPostChat(o Owned, p Principal, registered bool) bool {
	return IsOwner(o, p.ID) || registered
}

func RequireHost(p Principal) *errors.AppError {
	if CanCreateEvent(p) {
		return nil
	}
	return errors.NewAppError(errors.ErrForbidden, "only hosts can create events", nil)
}

func RequireOwner(o Owned, p Principal) *errors.AppError {
	if IsOwner(o, p.ID) {
		return nil
	}
	return errors.NewAppError(errors.ErrForbidden, "only the event host can do this", nil)
}

// RequireCanRegister rejects a host registering for their own event.
func RequireCanRegister(o Owned, p Principal) *errors.AppError {
	if CanRegister(o, p) {
		return nil
	}
	return errors.NewAppError(errors.ErrInvalidOperation, "Hosts cannot register for their own event", nil)
}

// RequireChatMember allows the host and registered participants.
func RequireChatMember(o Owned, p Principal, registered bool) *errors.AppError {
	if CanPostChat(o, p, registered) {
		return nil
	}
	return errors.NewAppError(errors.ErrForbidden, "only the host and registered participants can post in this chat", nil)
}
