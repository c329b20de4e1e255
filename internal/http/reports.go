package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jmehdipour/phone-engine/internal/action"
	"github.com/jmehdipour/phone-engine/internal/http/middleware"
	"github.com/jmehdipour/phone-engine/internal/model"
	"github.com/jmehdipour/phone-engine/internal/phone"
	"github.com/jmehdipour/phone-engine/internal/repository"
	echo "github.com/labstack/echo/v4"
)

func listActionsHandler(chRepo repository.CHActionsRepository, engine *phone.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		clientID, ok := middleware.ClientIDFromCtx(c)
		if !ok || clientID <= 0 {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		f := repository.ActionFilter{Limit: 50}
		if v := c.QueryParam("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
				f.Limit = n
			}
		}
		if v := c.QueryParam("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				f.Offset = n
			}
		}
		if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
			if st := model.ActionStatus(raw); st.Valid() {
				f.Status = st
			}
		}
		if raw := c.QueryParam("intent"); raw != "" {
			if in, ok := action.ParseIntent(raw); ok {
				f.Intent = in.String()
			}
		}
		if raw := strings.TrimSpace(c.QueryParam("phone")); raw != "" {
			// stored phones are E.164 when valid, else normalized input
			f.Phone = engine.FullNumber(raw)
			if f.Phone == "" {
				f.Phone = phone.Normalize(raw)
			}
		}

		rows, err := chRepo.ListByClient(c.Request().Context(), clientID, f)
		if err != nil {
			c.Logger().Errorf("clickhouse list failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"limit":   f.Limit,
			"offset":  f.Offset,
			"count":   len(rows),
			"results": rows,
		})
	}
}
