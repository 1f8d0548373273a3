package repositories

import (
	sq "github.com/Masterminds/squirrel"

	"gearguard/internal/authz"
)

// scopeCondition переводит область видимости принципала в SQL-условие.
// nil означает «без ограничений» (администратор).
func scopeCondition(scope authz.Scope, teamCol, ownerCol string) sq.Sqlizer {
	switch scope.Kind {
	case authz.ScopeTeam:
		return sq.Eq{teamCol: scope.TeamID}
	case authz.ScopeOwn:
		return sq.Eq{ownerCol: scope.EmployeeID}
	case authz.ScopeNone:
		return sq.Expr("FALSE")
	default:
		return nil
	}
}
