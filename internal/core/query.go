package core

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// tickerPattern matches symbols like AAPL, BRK-B, ^GSPC, 1299.HK, 600519.SH
var tickerPattern = regexp.MustCompile(`^[A-Za-z0-9^=\-]{1,12}(\.[A-Za-z]{1,4})?$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("ticker", func(fl validator.FieldLevel) bool {
		return tickerPattern.MatchString(fl.Field().String())
	})
	return v
}

// Query is the immutable input of one forecast run.
type Query struct {
	Ticker  string    `json:"ticker" validate:"required,max=20,ticker"`
	Start   time.Time `json:"start" validate:"required,ltefield=End"`
	End     time.Time `json:"end" validate:"required"`
	Horizon int       `json:"horizon" validate:"min=5,max=60"`
}

// NewQuery normalizes and validates user input. Dates are truncated to calendar
// days; a zero end means today.
func NewQuery(ticker string, start, end time.Time, horizon int) (Query, error) {
	if end.IsZero() {
		end = Today()
	}
	q := Query{
		Ticker:  strings.ToUpper(strings.TrimSpace(ticker)),
		Start:   DateOf(start),
		End:     DateOf(end),
		Horizon: horizon,
	}
	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}

// Validate checks the query against its field rules.
func (q Query) Validate() error {
	err := validate.Struct(q)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return WrapError(ErrInvalidQuery, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeField(fe))
	}
	return WrapError(ErrInvalidQuery, errors.New(strings.Join(msgs, "; ")))
}

func describeField(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", strings.ToLower(fe.Field()))
	case "ticker":
		return fmt.Sprintf("invalid ticker format: %v", fe.Value())
	case "max":
		if fe.Field() == "Horizon" {
			return fmt.Sprintf("horizon must be at most %s, got %v", fe.Param(), fe.Value())
		}
		return fmt.Sprintf("%s must be at most %s characters", strings.ToLower(fe.Field()), fe.Param())
	case "min":
		return fmt.Sprintf("horizon must be at least %s, got %v", fe.Param(), fe.Value())
	case "ltefield":
		return "start date must not be after end date"
	default:
		return fmt.Sprintf("%s failed %s validation", strings.ToLower(fe.Field()), fe.Tag())
	}
}
