package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/zgpcy/watchface/internal/face"
)

// Defaults for /api/labels, matching the reference face
const (
	DefaultLabelRadius = 100.0
	DefaultLabelCenter = face.ReferenceSize / 2
	MaxLabelRadius     = face.MaxSize
)

// faceQuery holds the parameters of /face.svg
type faceQuery struct {
	Size float64 `validate:"gte=50,lte=2000"`
}

// labelsQuery holds the parameters of /api/labels
type labelsQuery struct {
	Radius float64 `validate:"gt=0,lte=2000"`
	CX     float64 `validate:"gte=-2000,lte=2000"`
	CY     float64 `validate:"gte=-2000,lte=2000"`
}

// hourParam holds the path parameter of /api/labels/{hour}
type hourParam struct {
	Hour int `validate:"min=1,max=12"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func parseFaceQuery(r *http.Request, defaultSize float64) (faceQuery, error) {
	q := faceQuery{Size: defaultSize}
	if err := parseFloatParam(r, "size", &q.Size); err != nil {
		return q, err
	}
	return q, validateParams(q)
}

func parseLabelsQuery(r *http.Request) (labelsQuery, error) {
	q := labelsQuery{
		Radius: DefaultLabelRadius,
		CX:     DefaultLabelCenter,
		CY:     DefaultLabelCenter,
	}
	if err := parseFloatParam(r, "radius", &q.Radius); err != nil {
		return q, err
	}
	if err := parseFloatParam(r, "cx", &q.CX); err != nil {
		return q, err
	}
	if err := parseFloatParam(r, "cy", &q.CY); err != nil {
		return q, err
	}
	return q, validateParams(q)
}

func parseHourParam(r *http.Request) (hourParam, error) {
	var p hourParam
	raw := chi.URLParam(r, "hour")
	h, err := strconv.Atoi(raw)
	if err != nil {
		return p, fmt.Errorf("hour must be an integer, got %q", raw)
	}
	p.Hour = h
	return p, validateParams(p)
}

// parseFloatParam overwrites dst when the query parameter is present
func parseFloatParam(r *http.Request, name string, dst *float64) error {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("%s must be a number, got %q", name, raw)
	}
	*dst = f
	return nil
}

// validateParams runs struct tags and turns the first failure into a
// readable message.
func validateParams(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%s %s", strings.ToLower(fe.Field()), describeFailure(fe))
	}
	return err
}

func describeFailure(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed '%s'=%s validation", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("failed '%s' validation", fe.Tag())
	}
}
