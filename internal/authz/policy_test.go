package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint64) *uint64 { return &v }

func TestRequestScope(t *testing.T) {
	admin := Principal{ID: 1, Role: RoleAdmin}
	manager := Principal{ID: 2, Role: RoleManager, TeamID: uintPtr(10)}
	technician := Principal{ID: 3, Role: RoleTechnician, TeamID: uintPtr(10)}
	managerNoTeam := Principal{ID: 4, Role: RoleManager}
	employee := Principal{ID: 5, Role: RoleEmployee}

	assert.Equal(t, ScopeAll, RequestScope(admin).Kind, "администратор видит все заявки")
	assert.Equal(t, ScopeTeam, RequestScope(manager).Kind)
	assert.Equal(t, uint64(10), RequestScope(manager).TeamID)
	assert.Equal(t, ScopeTeam, RequestScope(technician).Kind)
	assert.Equal(t, ScopeNone, RequestScope(managerNoTeam).Kind, "менеджер без команды не видит ничего")
	assert.Equal(t, ScopeOwn, RequestScope(employee).Kind)
	assert.Equal(t, uint64(5), RequestScope(employee).EmployeeID)
}

func TestEquipmentScope(t *testing.T) {
	employee := Principal{ID: 7, Role: RoleEmployee}

	scope := EquipmentScope(employee)
	assert.Equal(t, ScopeOwn, scope.Kind, "сотрудник видит только закрепленное за ним оборудование")
	assert.Equal(t, uint64(7), scope.EmployeeID)
}

func TestCanSeeRequest(t *testing.T) {
	admin := Principal{ID: 1, Role: RoleAdmin}
	manager := Principal{ID: 2, Role: RoleManager, TeamID: uintPtr(10)}
	technician := Principal{ID: 3, Role: RoleTechnician, TeamID: uintPtr(20)}
	employee := Principal{ID: 5, Role: RoleEmployee}

	assert.True(t, CanSeeRequest(admin, 10, 99))
	assert.True(t, CanSeeRequest(manager, 10, 99))
	assert.False(t, CanSeeRequest(manager, 20, 99), "чужая команда менеджеру не видна")
	assert.False(t, CanSeeRequest(technician, 10, 99))
	assert.True(t, CanSeeRequest(employee, 10, 5), "сотрудник видит созданную им заявку")
	assert.False(t, CanSeeRequest(employee, 10, 99))
}

func TestCanSeeEquipment(t *testing.T) {
	employee := Principal{ID: 5, Role: RoleEmployee}

	assert.True(t, CanSeeEquipment(employee, 10, uintPtr(5)))
	assert.False(t, CanSeeEquipment(employee, 10, uintPtr(6)))
	assert.False(t, CanSeeEquipment(employee, 10, nil))
}

func TestCanCreateEquipment(t *testing.T) {
	admin := Principal{ID: 1, Role: RoleAdmin}
	manager := Principal{ID: 2, Role: RoleManager, TeamID: uintPtr(10)}
	technician := Principal{ID: 3, Role: RoleTechnician, TeamID: uintPtr(10)}

	assert.True(t, CanCreateEquipment(admin, 20), "администратор создает для любой команды")
	assert.True(t, CanCreateEquipment(manager, 10))
	assert.False(t, CanCreateEquipment(manager, 20), "менеджер создает только для своей команды")
	assert.False(t, CanCreateEquipment(technician, 10))
}

func TestCanScrapAndCanMarkRepaired(t *testing.T) {
	admin := Principal{ID: 1, Role: RoleAdmin}
	manager := Principal{ID: 2, Role: RoleManager, TeamID: uintPtr(10)}
	technician := Principal{ID: 3, Role: RoleTechnician, TeamID: uintPtr(10)}
	employee := Principal{ID: 5, Role: RoleEmployee}

	assert.True(t, CanScrap(admin))
	assert.True(t, CanScrap(manager))
	assert.False(t, CanScrap(technician), "техник не списывает оборудование")
	assert.False(t, CanScrap(employee))

	assert.True(t, CanMarkRepaired(technician))
	assert.False(t, CanMarkRepaired(manager), "менеджер не сертифицирует выполнение работ")
	assert.False(t, CanMarkRepaired(admin))
	assert.False(t, CanMarkRepaired(employee))
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("TECHNICIAN")
	assert.NoError(t, err)
	assert.Equal(t, RoleTechnician, role)

	_, err = ParseRole("SUPERVISOR")
	assert.Error(t, err, "неизвестная роль должна отклоняться")
}
