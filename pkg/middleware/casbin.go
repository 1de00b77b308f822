package middleware

import (
	"net/http"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	"github.com/casbin/casbin/v2/util"
	"github.com/labstack/echo/v4"

	"CommunityPortal/internal/session"
)

var (
	enforcer     *casbin.Enforcer
	enforcerOnce sync.Once
	enforcerErr  error
)

// getCasbinModel returns the RBAC model as a string; policies live in
// rbac_policy.csv next to the binary.
func getCasbinModel() string {
	return `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && regexMatch(r.act, p.act)`
}

// InitCasbinEnforcer initializes the Casbin enforcer singleton.
func InitCasbinEnforcer() (*casbin.Enforcer, error) {
	enforcerOnce.Do(func() {
		m, err := model.NewModelFromString(getCasbinModel())
		if err != nil {
			enforcerErr = err
			return
		}
		adapter := fileadapter.NewAdapter("rbac_policy.csv")
		enforcer, enforcerErr = casbin.NewEnforcer(m, adapter)
		if enforcerErr == nil {
			enforcer.AddFunction("keyMatch", util.KeyMatchFunc)
		}
	})
	return enforcer, enforcerErr
}

// CasbinMiddleware enforces RBAC for each request using the caller's role.
func CasbinMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ident, ok := session.FromContext(c)
		if !ok {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Unauthorized: missing identity"})
		}
		enf, err := InitCasbinEnforcer()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "RBAC system error"})
		}
		allowed, err := enf.Enforce(ident.Role, c.Request().URL.Path, c.Request().Method)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "RBAC system error"})
		}
		if !allowed {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Forbidden: insufficient permissions"})
		}
		return next(c)
	}
}
