package service

import (
	commonerrors "github.com/linkmark/backend/internal/common/errors"
)

var (
	ErrInvalidCredentials = commonerrors.ErrInvalidCredentials
	ErrUserAlreadyExists  = commonerrors.ErrUserAlreadyExists
)
