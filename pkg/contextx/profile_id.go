package contextx

import (
	"context"
	"fmt"
)

// ProfileID identifies the player profile acting on behalf of the request.
type ProfileID string

type contextKeyProfileID struct{}

func (p ProfileID) String() string {
	return string(p)
}

func WithProfileID(ctx context.Context, profileID ProfileID) context.Context {
	return context.WithValue(ctx, contextKeyProfileID{}, profileID)
}

func ProfileIDFromContext(ctx context.Context) (ProfileID, error) {
	profileID, ok := ctx.Value(contextKeyProfileID{}).(ProfileID)
	if !ok || profileID == "" {
		return "", fmt.Errorf("profile id: %w", ErrNoValue)
	}

	return profileID, nil
}
