package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a record's field constraints before it is stored.
func Validate(coll Collection, rec Record) error {
	err := validate.Struct(rec)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate %s: %w", coll, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return &Error{
		Code:       ErrCodeInvalidRecord,
		Message:    fmt.Sprintf("%s record %q has invalid fields: %s", coll, rec.RecordID(), strings.Join(fields, ", ")),
		Collection: coll,
		ID:         rec.RecordID(),
		Err:        err,
	}
}
