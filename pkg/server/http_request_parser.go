package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/iancoleman/strcase"
	"github.com/tidwall/gjson"

	"github.com/chemviz/chemviz/pkg/contract"
)

type HTTPRequestParser struct {
	validator *validator.Validate
}

var _ contract.HTTPRequestParser = (*HTTPRequestParser)(nil)

func NewHTTPRequestParser() (*HTTPRequestParser, error) {
	v, err := NewValidator()
	if err != nil {
		return nil, err
	}

	return &HTTPRequestParser{
		validator: v,
	}, nil
}

func (p *HTTPRequestParser) ParseBody(ctx *fiber.Ctx, input interface{}) *contract.Error {
	if err := ctx.BodyParser(input); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			result := gjson.GetBytes(ctx.Body(), typeErr.Field)
			value := result.Str
			if value == "" {
				value = result.Raw
			}

			return contract.NewError(
				contract.ErrorCode_INVALID_PARAMETER_VALUE,
				fmt.Sprintf("Invalid value %s for parameter '%s'", value, typeErr.Field),
			)
		}

		return contract.NewError(contract.ErrorCode_BAD_REQUEST, err.Error())
	}

	return p.Validate(input)
}

func (p *HTTPRequestParser) ParseQuery(ctx *fiber.Ctx, input interface{}) *contract.Error {
	if err := ctx.QueryParser(input); err != nil {
		return contract.NewError(contract.ErrorCode_INVALID_PARAMETER_VALUE, err.Error())
	}

	return p.Validate(input)
}

func (p *HTTPRequestParser) ParseParams(ctx *fiber.Ctx, input interface{}) *contract.Error {
	if err := ctx.ParamsParser(input); err != nil {
		return contract.NewError(contract.ErrorCode_INVALID_PARAMETER_VALUE, err.Error())
	}

	return p.Validate(input)
}

func (p *HTTPRequestParser) Validate(input interface{}) *contract.Error {
	if err := p.validator.Struct(input); err != nil {
		return newErrorFromValidationError(err)
	}

	return nil
}

func dereference(value interface{}) interface{} {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr {
		return v.Elem().Interface()
	}

	return value
}

func newErrorFromValidationError(err error) *contract.Error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return contract.NewError(contract.ErrorCode_INTERNAL_ERROR, err.Error())
	}

	validationErrors := make([]string, 0, len(errs))

	for _, err := range errs {
		field := strcase.ToSnake(err.Field())
		value := dereference(err.Value())

		var vErr string

		switch err.Tag() {
		case "required":
			vErr = fmt.Sprintf("Missing value for required parameter '%s'", field)
		case "tabularFilename":
			vErr = fmt.Sprintf(
				"Invalid file type %q. Please upload a file ending in %s",
				value, strings.Join(tabularExtensions, ", "),
			)
		default:
			vErr = fmt.Sprintf("Invalid value %v for parameter '%s' supplied", value, field)
		}

		validationErrors = append(validationErrors, vErr)
	}

	return contract.NewError(contract.ErrorCode_INVALID_PARAMETER_VALUE, strings.Join(validationErrors, ", "))
}
