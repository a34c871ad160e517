package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/friend-graph/pkg/apperrors"
)

var (
	ErrUserNotFound       = apperrors.New(apperrors.NotFound, "user not found")
	ErrUsernameTaken      = apperrors.New(apperrors.Conflict, "username already exists")
	ErrSelfFriendship     = apperrors.New(apperrors.Conflict, "cannot create friendship with self")
	ErrFriendshipExists   = apperrors.New(apperrors.Conflict, "friendship already exists")
	ErrFriendshipNotFound = apperrors.New(apperrors.NotFound, "friendship not found")
	ErrUserHasFriendships = apperrors.New(apperrors.Conflict, "cannot delete user with existing friendships, remove friendships first")
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationError turns validator output into a client-facing Validation error.
// field names the value for Var checks, which carry no struct field.
func validationError(err error, field string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.Wrap(apperrors.Validation, "invalid input", err)
	}
	fe := verrs[0]
	name := fe.Field()
	if name == "" {
		name = field
	}
	switch fe.Tag() {
	case "required":
		return apperrors.Validationf("%s is required", name)
	case "gte":
		return apperrors.Validationf("%s must be greater than or equal to %s", name, fe.Param())
	case "max":
		return apperrors.Validationf("%s must be at most %s characters", name, fe.Param())
	default:
		return apperrors.Validationf("%s is invalid (%s)", name, fe.Tag())
	}
}
