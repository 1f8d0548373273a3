package authz

// Правила авторизации движка заявок. Все функции чистые: (действие, принципал,
// атрибуты цели) → разрешено/нет. Проверяются юнит-тестами без хранилища.

// ScopeKind описывает область видимости принципала для списков.
type ScopeKind int

const (
	// ScopeAll — видно всё (администратор).
	ScopeAll ScopeKind = iota
	// ScopeTeam — видны только записи своей команды (менеджер, техник).
	ScopeTeam
	// ScopeOwn — видны только собственные записи (сотрудник).
	ScopeOwn
	// ScopeNone — команда не назначена, список пуст.
	ScopeNone
)

type Scope struct {
	Kind       ScopeKind
	TeamID     uint64
	EmployeeID uint64
}

// EquipmentScope: админ видит всё; менеджер и техник — оборудование своей команды;
// сотрудник — только закреплённое за ним.
func EquipmentScope(p Principal) Scope {
	switch p.Role {
	case RoleAdmin:
		return Scope{Kind: ScopeAll}
	case RoleManager, RoleTechnician:
		if p.TeamID == nil {
			return Scope{Kind: ScopeNone}
		}
		return Scope{Kind: ScopeTeam, TeamID: *p.TeamID}
	default:
		return Scope{Kind: ScopeOwn, EmployeeID: p.ID}
	}
}

// RequestScope: админ видит всё; менеджер и техник — заявки своей команды
// (по замороженному team_id заявки); сотрудник — только созданные им.
func RequestScope(p Principal) Scope {
	switch p.Role {
	case RoleAdmin:
		return Scope{Kind: ScopeAll}
	case RoleManager, RoleTechnician:
		if p.TeamID == nil {
			return Scope{Kind: ScopeNone}
		}
		return Scope{Kind: ScopeTeam, TeamID: *p.TeamID}
	default:
		return Scope{Kind: ScopeOwn, EmployeeID: p.ID}
	}
}

// CanSeeRequest — гейт видимости одной заявки; применяется и перед мутациями:
// нельзя назначать или переводить заявку вне своей области видимости.
func CanSeeRequest(p Principal, requestTeamID uint64, creatorID uint64) bool {
	switch p.Role {
	case RoleAdmin:
		return true
	case RoleManager, RoleTechnician:
		return p.InTeam(requestTeamID)
	default:
		return creatorID == p.ID
	}
}

// CanSeeEquipment — гейт видимости единицы оборудования.
func CanSeeEquipment(p Principal, equipmentTeamID uint64, holderID *uint64) bool {
	switch p.Role {
	case RoleAdmin:
		return true
	case RoleManager, RoleTechnician:
		return p.InTeam(equipmentTeamID)
	default:
		return holderID != nil && *holderID == p.ID
	}
}

// CanCreateEquipment: админ — для любой команды, менеджер — только для своей.
func CanCreateEquipment(p Principal, teamID uint64) bool {
	switch p.Role {
	case RoleAdmin:
		return true
	case RoleManager:
		return p.InTeam(teamID)
	default:
		return false
	}
}

// CanManageEquipment — редактирование карточки оборудования.
func CanManageEquipment(p Principal, teamID uint64) bool {
	return CanCreateEquipment(p, teamID)
}

// CanAssignTechnician: назначать техника может любой, кому заявка видна.
func CanAssignTechnician(p Principal, requestTeamID uint64, creatorID uint64) bool {
	return CanSeeRequest(p, requestTeamID, creatorID)
}

// CanScrap: списание — прерогатива менеджера и администратора.
func CanScrap(p Principal) bool {
	return p.Role == RoleAdmin || p.Role == RoleManager
}

// CanMarkRepaired: завершение ремонта подтверждает только техник.
// Менеджеры планируют и назначают работу, но не сертифицируют её выполнение.
func CanMarkRepaired(p Principal) bool {
	return p.Role == RoleTechnician
}

// CanManageEmployees — администрирование пользователей и команд.
func CanManageEmployees(p Principal) bool {
	return p.Role == RoleAdmin
}
