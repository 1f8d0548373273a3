package authz

import (
	"context"

	"gearguard/pkg/contextkeys"
	apperrors "gearguard/pkg/errors"
)

// Principal — аутентифицированный субъект запроса. Передаётся явным параметром
// во все сервисы; никакого неявного глобального состояния.
type Principal struct {
	ID     uint64
	Role   Role
	TeamID *uint64
}

// FromContext извлекает принципала, положенного в контекст auth-middleware.
// Отсутствие принципала означает, что запрос не прошёл аутентификацию.
func FromContext(ctx context.Context) (Principal, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok || userID == 0 {
		return Principal{}, apperrors.ErrUnauthenticated
	}

	rawRole, ok := ctx.Value(contextkeys.UserRoleKey).(string)
	if !ok {
		return Principal{}, apperrors.ErrUnauthenticated
	}
	role, err := ParseRole(rawRole)
	if err != nil {
		return Principal{}, apperrors.ErrUnauthenticated
	}

	p := Principal{ID: userID, Role: role}
	if teamID, ok := ctx.Value(contextkeys.UserTeamKey).(uint64); ok {
		p.TeamID = &teamID
	}
	return p, nil
}

func (p Principal) InTeam(teamID uint64) bool {
	return p.TeamID != nil && *p.TeamID == teamID
}
