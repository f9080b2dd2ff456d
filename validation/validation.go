package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator"
	"github.com/google/uuid"
	"github.com/meghashyamc/searchfront/logger"
)

var (
	ErrInvalidQuery     = errors.New("invalid query")
	ErrInvalidVisitorID = errors.New("invalid visitor id")
)

type Validator struct {
	validator  *validator.Validate
	logger     logger.Logger
	customTags map[string]error
}

// customTag is a validate tag registered on top of the built-in ones. A failure reports err as-is.
type customTag struct {
	name  string
	check func(v *Validator, value string) bool
	err   error
}

var customTags = []customTag{
	{name: "valid_query", check: (*Validator).isValidQuery, err: ErrInvalidQuery},
	{name: "valid_visitor_id", check: (*Validator).isValidVisitorID, err: ErrInvalidVisitorID},
}

// builtinMessages turns failures of built-in tags into messages naming the field.
var builtinMessages = map[string]string{
	"required": "missing required field '%s'",
	"min":      "value or length of field '%s' is not in the expected range",
	"max":      "value or length of field '%s' is not in the expected range",
	"oneof":    "unexpected value for field '%s'",
}

func New(logger logger.Logger) (*Validator, error) {
	v := &Validator{
		validator:  validator.New(),
		logger:     logger,
		customTags: make(map[string]error, len(customTags)),
	}
	v.validator.RegisterTagNameFunc(fieldName)

	for _, tag := range customTags {
		check := tag.check
		if err := v.validator.RegisterValidation(tag.name, func(fl validator.FieldLevel) bool {
			return check(v, fl.Field().String())
		}); err != nil {
			logger.Error("failed to register custom validation", "tag", tag.name, "err", err.Error())
			return nil, err
		}
		v.customTags[tag.name] = tag.err
	}

	return v, nil
}

// Validate checks i against its validate tags and reports the first failing field.
func (v *Validator) Validate(i any) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}
	v.logger.Warn("validation failed", "err", err.Error())

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return err
	}

	first := validationErrs[0]
	if customErr, ok := v.customTags[first.Tag()]; ok {
		return customErr
	}
	if message, ok := builtinMessages[first.Tag()]; ok {
		return fmt.Errorf(message, first.Field())
	}

	return err
}

// fieldName names a field by its json tag, falling back to its form tag.
func fieldName(fld reflect.StructField) string {
	for _, tagKey := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tagKey), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return ""
}

func (v *Validator) isValidVisitorID(visitorID string) bool {
	if _, err := uuid.Parse(visitorID); err != nil {
		v.logger.Warn("visitor id is not a uuid", "visitor_id", visitorID)
		return false
	}
	return true
}

func (v *Validator) isValidQuery(query string) bool {
	switch {
	case strings.TrimSpace(query) == "":
		v.logger.Warn("query is blank")
		return false
	case strings.ContainsRune(query, '\x00'):
		v.logger.Warn("query has null byte")
		return false
	}
	return true
}
