// Package validators decodes and validates JSON request bodies, translating
// struct-tag failures into field-keyed validation errors.
package validators

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	pkgerrors "github.com/favatis/favatis-backend/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// spotifyArtistPattern matches a canonical Spotify artist page URL.
var spotifyArtistPattern = regexp.MustCompile(`^https://open\.spotify\.com/artist/[a-zA-Z0-9]+$`)

var validate = newValidator()

// newValidator reports field names from json tags so validation details line
// up with what clients actually sent.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]; tag != "" {
			return tag
		}
		return f.Name
	})
	if err := v.RegisterValidation("spotify_artist_link", func(fl validator.FieldLevel) bool {
		return spotifyArtistPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register spotify_artist_link validator: %v", err))
	}
	return v
}

// DecodeJSONBody parses the request body into dest, rejecting unknown fields,
// then runs struct validation.
func DecodeJSONBody(r *http.Request, dest any) error {
	defer io.Copy(io.Discard, r.Body)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").
			WithDetails(map[string]any{"error": err.Error()})
	}
	if err := validate.Struct(dest); err != nil {
		return asValidationError(err)
	}
	return nil
}

func asValidationError(err error) *pkgerrors.Error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	details := make(map[string]string, len(errs))
	for _, fieldErr := range errs {
		details[fieldErr.Field()] = tagMessage(fieldErr)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "spotify_artist_link":
		return "must be a Spotify artist URL"
	}
	return "is invalid"
}
