package http

import (
	"github.com/google/uuid"

	commonerrors "github.com/linkmark/backend/internal/common/errors"
)

func ValidateUUID(s string) error {
	if s == "" {
		return commonerrors.ErrValidationFailed
	}
	if _, err := uuid.Parse(s); err != nil {
		return commonerrors.ErrValidationFailed.WithCause(err)
	}
	return nil
}
