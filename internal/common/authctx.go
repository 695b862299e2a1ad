package common

import "context"

type ctxKey string

const (
	userIDKey    ctxKey = "auth/user-id"
	rolesKey     ctxKey = "auth/roles"
	actorSlotKey ctxKey = "auth/actor-slot"
)

type actorSlot struct {
	id string
}

// WithActorSlot lets middleware that wraps the router see who a request was
// authenticated as, even though authentication happens further down the chain.
func WithActorSlot(ctx context.Context) context.Context {
	return context.WithValue(ctx, actorSlotKey, &actorSlot{})
}

// Actor returns the identity recorded under the nearest actor slot, or "".
func Actor(ctx context.Context) string {
	if slot, ok := ctx.Value(actorSlotKey).(*actorSlot); ok {
		return slot.id
	}
	return ""
}

// WithUserID stores the authenticated user identifier on the provided context
// and records it in the enclosing actor slot, if any.
func WithUserID(ctx context.Context, id string) context.Context {
	if slot, ok := ctx.Value(actorSlotKey).(*actorSlot); ok {
		slot.id = id
	}
	return context.WithValue(ctx, userIDKey, id)
}

// UserID extracts the authenticated user identifier from the context if present.
func UserID(ctx context.Context) (string, bool) {
	v := ctx.Value(userIDKey)
	if v == nil {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// WithRoles stores the caller's roles on the context.
func WithRoles(ctx context.Context, roles []string) context.Context {
	return context.WithValue(ctx, rolesKey, roles)
}

// HasRole reports whether the caller carries role.
func HasRole(ctx context.Context, role string) bool {
	roles, _ := ctx.Value(rolesKey).([]string)
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
