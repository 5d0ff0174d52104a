package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

//contextのフラグを見てスタッフ以上だけ許可します。adminはスタッフ扱い。

func StaffRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			isStaff, _ := c.Get(CtxIsStaffKey).(bool)
			isAdmin, _ := c.Get(CtxIsAdminKey).(bool)

			if !isStaff && !isAdmin {
				return c.JSON(http.StatusForbidden, errorJSON("staff only"))
			}

			return next(c)
		}
	}
}

// adminだけ許可します。
func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			isAdmin, _ := c.Get(CtxIsAdminKey).(bool)

			if !isAdmin {
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}

			return next(c)
		}
	}
}
