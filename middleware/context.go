package middleware

import (
	"context"
)

// Context key type to avoid collisions
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"

	// AgentIDKey is the context key for the agent id of the request under
	// evaluation, set by the access handler once credentials are decoded
	AgentIDKey contextKey = "agent_id"
)

// GetRequestIDFromContext retrieves the request ID from context
func GetRequestIDFromContext(ctx context.Context) string {
	if val := ctx.Value(RequestIDKey); val != nil {
		if requestID, ok := val.(string); ok {
			return requestID
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetAgentIDFromContext retrieves the agent ID from context
func GetAgentIDFromContext(ctx context.Context) string {
	if val := ctx.Value(AgentIDKey); val != nil {
		if agentID, ok := val.(string); ok {
			return agentID
		}
	}
	return ""
}

// WithAgentID adds an agent ID to the context
func WithAgentID(ctx context.Context, agentID string) context.Context {
	return context.WithValue(ctx, AgentIDKey, agentID)
}
