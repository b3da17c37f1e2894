package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB 基于sqlmock的gorm句柄，用于覆盖不依赖真实库的SQL分支
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("创建sqlmock失败: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("初始化gorm失败: %v", err)
	}
	return db, mock
}

func roleRows(id int64, name, description string, isSystem bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "description", "is_system"}).
		AddRow(id, name, description, isSystem)
}

func permissionRows(id int64, name, resource, action string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "resource", "action"}).
		AddRow(id, name, resource, action)
}

func grantRows(id, roleID, permissionID int64, ownScopeOnly bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "role_id", "permission_id", "own_scope_only"}).
		AddRow(id, roleID, permissionID, ownScopeOnly)
}

func emptyRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id"})
}

func TestUpsertRoleCreateFromAPIIsNotSystem(t *testing.T) {
	db, mock := newMockDB(t)
	service := NewRoleService(db, nil)

	mock.ExpectQuery(`SELECT \* FROM "roles"`).WillReturnRows(emptyRows())
	// 管理端新建的角色 is_system 必须为 false
	mock.ExpectQuery(`INSERT INTO "roles"`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "vip_client", "大客户专属角色", false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))

	role, err := service.UpsertRole("vip_client", "大客户专属角色", false)
	if err != nil {
		t.Fatalf("UpsertRole失败: %v", err)
	}
	if role.IsSystem {
		t.Fatal("管理端新建的角色不应是系统角色")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("SQL期望未满足: %v", err)
	}
}

func TestUpsertRoleCreateFromSeedIsSystem(t *testing.T) {
	db, mock := newMockDB(t)
	service := NewRoleService(db, nil)

	mock.ExpectQuery(`SELECT \* FROM "roles"`).WillReturnRows(emptyRows())
	mock.ExpectQuery(`INSERT INTO "roles"`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "client", "客户", true).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))

	role, err := service.UpsertRole("client", "客户", true)
	if err != nil {
		t.Fatalf("UpsertRole失败: %v", err)
	}
	if !role.IsSystem {
		t.Fatal("种子写入的预置角色应是系统角色")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("SQL期望未满足: %v", err)
	}
}

func TestUpsertRoleSecondRunIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	service := NewRoleService(db, nil)

	// 描述未变时不产生任何写入，重复执行种子是无操作
	mock.ExpectQuery(`SELECT \* FROM "roles"`).
		WillReturnRows(roleRows(4, "client", "客户", true))

	role, err := service.UpsertRole("client", "客户", true)
	if err != nil {
		t.Fatalf("UpsertRole失败: %v", err)
	}
	if role.ID != 4 {
		t.Fatalf("角色ID = %d, 期望保留原ID 4", role.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("SQL期望未满足: %v", err)
	}
}

func TestGrantRestoresDeletedJoin(t *testing.T) {
	db, mock := newMockDB(t)
	service := NewRoleService(db, nil)

	// 连接行被手工删除后重跑种子，只需重建这一条授权
	mock.ExpectQuery(`SELECT \* FROM "roles"`).
		WillReturnRows(roleRows(4, "client", "客户", true))
	mock.ExpectQuery(`SELECT \* FROM "permissions"`).
		WillReturnRows(permissionRows(9, "read_order", "orders", "read"))
	mock.ExpectQuery(`SELECT \* FROM "role_permissions"`).WillReturnRows(emptyRows())
	mock.ExpectQuery(`INSERT INTO "role_permissions"`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), true, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(33))

	if err := service.Grant("client", "read_order", true); err != nil {
		t.Fatalf("Grant失败: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("SQL期望未满足: %v", err)
	}
}

func TestGrantDuplicateIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	service := NewRoleService(db, nil)

	// 授权已存在且own-scope标记一致，不应产生写入
	mock.ExpectQuery(`SELECT \* FROM "roles"`).
		WillReturnRows(roleRows(4, "client", "客户", true))
	mock.ExpectQuery(`SELECT \* FROM "permissions"`).
		WillReturnRows(permissionRows(9, "read_order", "orders", "read"))
	mock.ExpectQuery(`SELECT \* FROM "role_permissions"`).
		WillReturnRows(grantRows(33, 4, 9, true))

	if err := service.Grant("client", "read_order", true); err != nil {
		t.Fatalf("Grant失败: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("SQL期望未满足: %v", err)
	}
}

func TestGrantUpdatesOwnScopeFlag(t *testing.T) {
	db, mock := newMockDB(t)
	service := NewRoleService(db, nil)

	// own-scope标记变化时跟随最新配置
	mock.ExpectQuery(`SELECT \* FROM "roles"`).
		WillReturnRows(roleRows(4, "client", "客户", true))
	mock.ExpectQuery(`SELECT \* FROM "permissions"`).
		WillReturnRows(permissionRows(9, "read_order", "orders", "read"))
	mock.ExpectQuery(`SELECT \* FROM "role_permissions"`).
		WillReturnRows(grantRows(33, 4, 9, false))
	mock.ExpectExec(`UPDATE "role_permissions"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := service.Grant("client", "read_order", true); err != nil {
		t.Fatalf("Grant失败: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("SQL期望未满足: %v", err)
	}
}

func TestGrantUnknownPermissionFails(t *testing.T) {
	db, mock := newMockDB(t)
	service := NewRoleService(db, nil)

	// 名字写错的授权必须中断，不能静默跳过
	mock.ExpectQuery(`SELECT \* FROM "roles"`).
		WillReturnRows(roleRows(4, "client", "客户", true))
	mock.ExpectQuery(`SELECT \* FROM "permissions"`).WillReturnRows(emptyRows())

	if err := service.Grant("client", "raed_order", true); err == nil {
		t.Fatal("未定义的权限名应返回错误")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("SQL期望未满足: %v", err)
	}
}

func TestRevokeMissingGrantIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	service := NewRoleService(db, nil)

	mock.ExpectQuery(`SELECT \* FROM "roles"`).
		WillReturnRows(roleRows(4, "client", "客户", true))
	mock.ExpectQuery(`SELECT \* FROM "permissions"`).
		WillReturnRows(permissionRows(9, "read_order", "orders", "read"))
	mock.ExpectExec(`DELETE FROM "role_permissions"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := service.Revoke("client", "read_order"); err != nil {
		t.Fatalf("Revoke失败: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("SQL期望未满足: %v", err)
	}
}
