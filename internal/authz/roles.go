package authz

import apperrors "gearguard/pkg/errors"

// Role — закрытый набор ролей системы. Никаких разбросанных сравнений строк:
// роль парсится один раз на границе и дальше ходит как типизированное значение.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleManager    Role = "MANAGER"
	RoleTechnician Role = "TECHNICIAN"
	RoleEmployee   Role = "EMPLOYEE"
)

func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleAdmin, RoleManager, RoleTechnician, RoleEmployee:
		return Role(raw), nil
	}
	return "", apperrors.NewInvalidInputError("неизвестная роль: %q", raw)
}

func (r Role) String() string { return string(r) }
