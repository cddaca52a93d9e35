package handlers

import (
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

// criteriaInput is the raw filter selection from a query string or from
// datastar signals. A nil Products means the caller did not choose.
type criteriaInput struct {
	Products []string `json:"products" validate:"max=200,dive,required,max=200"`
	Start    string   `json:"start" validate:"omitempty,datetime=2006-01-02"`
	End      string   `json:"end" validate:"omitempty,datetime=2006-01-02"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		in := sl.Current().Interface().(criteriaInput)
		start, errStart := time.Parse(models.DateLayout, in.Start)
		end, errEnd := time.Parse(models.DateLayout, in.End)
		if errStart == nil && errEnd == nil && end.Before(start) {
			sl.ReportError(in.End, "end", "End", "gtefield", "start")
		}
	}, criteriaInput{})

	return v
}

// ParseCriteria reads products, start and end from query values. An absent
// products parameter selects the whole catalog; a present but empty one is an
// empty selection. Bad input yields a VALIDATION_ERROR.
func ParseCriteria(q url.Values, catalog []string) (models.FilterCriteria, error) {
	in := criteriaInput{
		Start: strings.TrimSpace(q.Get("start")),
		End:   strings.TrimSpace(q.Get("end")),
	}
	if q.Has("products") {
		in.Products = splitProducts(q["products"])
	}
	return in.criteria(catalog)
}

func (in criteriaInput) criteria(catalog []string) (models.FilterCriteria, error) {
	if err := validate.Struct(in); err != nil {
		return models.FilterCriteria{}, errors.FromValidation(err)
	}

	criteria := models.FilterCriteria{Products: in.Products}
	if criteria.Products == nil {
		criteria.Products = append([]string{}, catalog...)
	}
	// Both dates already passed validation.
	if in.Start != "" {
		criteria.Start, _ = time.Parse(models.DateLayout, in.Start)
	}
	if in.End != "" {
		criteria.End, _ = time.Parse(models.DateLayout, in.End)
	}
	return criteria, nil
}

func splitProducts(values []string) []string {
	products := []string{}
	seen := make(map[string]struct{})
	for _, v := range values {
		for _, p := range strings.Split(v, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			products = append(products, p)
		}
	}
	return products
}
