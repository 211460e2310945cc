package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// 上流のゲートウェイが認証済みスタッフの情報をヘッダーで伝搬する
const (
	HeaderUserEmail = "X-User-Email"
	HeaderUserRole  = "X-User-Role"
)

// StaffAuth はスタッフのロールを検証するミドルウェア
// X-User-Email と X-User-Role が揃っていなければ401、
// ロールが許可リストに含まれなければ403を返す
func StaffAuth(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email := c.Request().Header.Get(HeaderUserEmail)
			role := c.Request().Header.Get(HeaderUserRole)

			if email == "" || role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "スタッフ情報のヘッダーが必要です")
			}
			if _, ok := allowed[role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "このロールでは操作できません")
			}

			return next(c)
		}
	}
}
