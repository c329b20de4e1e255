package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/jmehdipour/phone-engine/internal/action"
	"github.com/jmehdipour/phone-engine/internal/http/middleware"
	"github.com/jmehdipour/phone-engine/internal/model"
	"github.com/jmehdipour/phone-engine/internal/phone"
	"github.com/jmehdipour/phone-engine/internal/service/contact"
	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// ActionRecorder is satisfied by *contact.Service.
type ActionRecorder interface {
	Record(ctx context.Context, req contact.Request) (model.ContactAction, action.Effect, error)
}

type actionReq struct {
	Phone      string `json:"phone"`
	Intent     string `json:"intent"` // "call" | "whatsapp" | "copy"
	Message    string `json:"message"`
	ListingRef string `json:"listing_ref"`
}

func actionHandler(rec ActionRecorder) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req actionReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}
		req.ListingRef = strings.TrimSpace(req.ListingRef)
		if utf8.RuneCountInString(req.Message) > 1000 || len(req.ListingRef) > 128 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "payload too long"})
		}

		clientID, ok := middleware.ClientIDFromCtx(c)
		if !ok || clientID <= 0 {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		act, eff, err := rec.Record(c.Request().Context(), contact.Request{
			ClientID:   clientID,
			Phone:      req.Phone,
			Intent:     req.Intent,
			Message:    req.Message,
			ListingRef: req.ListingRef,
		})
		switch {
		case errors.Is(err, contact.ErrInvalidIntent):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid intent"})
		case errors.Is(err, phone.ErrEmptyInput):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "empty phone"})
		case err != nil:
			log.Errorf("record contact action: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
		}

		return c.JSON(http.StatusAccepted, map[string]any{
			"id":     act.ID,
			"intent": act.Intent,
			"uri":    eff.URI,
		})
	}
}
