package http

import (
	"net/http"
	"strings"

	"github.com/jmehdipour/phone-engine/internal/metrics"
	"github.com/jmehdipour/phone-engine/internal/phone"
	echo "github.com/labstack/echo/v4"
)

type processReq struct {
	Phone string `json:"phone"`
}

type processResp struct {
	phone.Result
	International string `json:"international,omitempty"`
	Region        string `json:"region,omitempty"`
}

type phoneHandlers struct {
	engine *phone.Engine
}

// observe runs the pipeline once and counts the outcome.
func (h phoneHandlers) observe(raw string) phone.Result {
	res := h.engine.Process(raw)
	metrics.ObservePhone(res.Kind.String(), res.DialCode)
	return res
}

func (h phoneHandlers) process(c echo.Context) error {
	var req processReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
	}

	res := h.observe(req.Phone)
	out := processResp{Result: res}
	if res.IsValid {
		out.International = res.International()
		if p, ok := h.engine.Registry().Lookup(res.DialCode); ok {
			out.Region = p.Region
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (h phoneHandlers) format(c echo.Context) error {
	raw := c.QueryParam("phone")
	display := raw
	if res := h.observe(raw); res.IsValid {
		display = res.DisplayNumber
	}
	return c.JSON(http.StatusOK, map[string]string{"display": display})
}

func (h phoneHandlers) full(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"full": h.observe(c.QueryParam("phone")).FullNumber,
	})
}

func (h phoneHandlers) homeValid(c echo.Context) error {
	res := h.observe(c.QueryParam("phone"))
	return c.JSON(http.StatusOK, map[string]bool{
		"valid": res.IsValid && res.DialCode == h.engine.Home().DialCode,
	})
}

func (h phoneHandlers) mask(c echo.Context) error {
	raw := c.QueryParam("phone")
	var masked string
	switch strings.ToLower(c.QueryParam("scope")) {
	case "any":
		masked = h.engine.MaskAny(raw)
	case "", "home":
		masked = h.engine.Mask(raw)
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid scope"})
	}
	h.observe(raw)
	return c.JSON(http.StatusOK, map[string]string{"masked": masked})
}

func (h phoneHandlers) carrier(c echo.Context) error {
	raw := c.QueryParam("phone")
	h.observe(raw)
	return c.JSON(http.StatusOK, h.engine.Classify(raw))
}
