package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"letsprint/internal/models"
	"letsprint/internal/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newHandlerMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
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

func TestMeReportsPermissionLookupFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, mock := newHandlerMockDB(t)
	// 权限列表查询在角色定位这一步就失败
	mock.ExpectQuery(`SELECT \* FROM "roles"`).
		WillReturnError(gorm.ErrInvalidDB)

	handler := NewAuthHandler(services.NewUserService(db), services.NewRoleService(db, nil))

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	c.Set("user", &models.User{
		Email:    "owner@print.test",
		Name:     "Owner",
		IsActive: true,
		Role:     &models.Role{Name: models.RoleBusinessOwner},
	})

	handler.Me(c)

	// 读取权限失败必须上报为服务端错误，不能返回空权限集
	body := recorder.Body.String()
	if !strings.Contains(body, `"code":500`) {
		t.Fatalf("期望响应体携带 code 500, 实际: %s", body)
	}
	if strings.Contains(body, `"permissions"`) {
		t.Fatalf("失败响应不应包含权限列表, 实际: %s", body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("SQL期望未满足: %v", err)
	}
}

func TestMeRequiresLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, _ := newHandlerMockDB(t)
	handler := NewAuthHandler(services.NewUserService(db), services.NewRoleService(db, nil))

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest("GET", "/api/v1/auth/me", nil)

	handler.Me(c)

	if !strings.Contains(recorder.Body.String(), `"code":401`) {
		t.Fatalf("未登录访问应返回 code 401, 实际: %s", recorder.Body.String())
	}
}
