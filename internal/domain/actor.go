package domain

import "context"

// Role represents a caller's office in the group.
type Role string

const (
	// RoleAdmin has full access to all operations
	RoleAdmin Role = "admin"

	// RoleTreasurer manages accounts, budgets and expense decisions
	RoleTreasurer Role = "treasurer"

	// RoleSecretary records contributions and claims expenses
	RoleSecretary Role = "secretary"

	// RoleMember can claim expenses and read reports
	RoleMember Role = "member"
)

var validRoles = map[Role]bool{
	RoleAdmin:     true,
	RoleTreasurer: true,
	RoleSecretary: true,
	RoleMember:    true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanManageFunds reports whether the role may approve, reject and pay
// expenses and change the chart of accounts or budgets.
func (r Role) CanManageFunds() bool {
	return r == RoleAdmin || r == RoleTreasurer
}

// CanRecordContributions reports whether the role may create and post
// contribution batches.
func (r Role) CanRecordContributions() bool {
	return r == RoleAdmin || r == RoleTreasurer || r == RoleSecretary
}

// Actor is the caller identity supplied by the auth boundary. The ledger
// trusts it and does not authenticate.
type Actor struct {
	ID   string
	Role Role
}

type (
	actorContextKey     struct{}
	requestIDContextKey struct{}
)

// ContextWithRequestID returns a context carrying the request id.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, requestID)
}

// RequestIDFromContext returns the request id in ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}

// ContextWithActor returns a context carrying the actor.
func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext returns the actor stored in ctx, if any.
func ActorFromContext(ctx context.Context) (*Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(*Actor)
	return actor, ok && actor != nil
}

// ActorID returns the id of the actor in ctx, or fallback when absent.
func ActorID(ctx context.Context, fallback string) string {
	if actor, ok := ActorFromContext(ctx); ok {
		return actor.ID
	}
	return fallback
}
