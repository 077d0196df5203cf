package utils

import "errors"

// Common application errors used across services.
var (
    ErrNotFound           = errors.New("NOT_FOUND")
    ErrAccessDenied       = errors.New("ACCESS_DENIED")
    ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
    ErrAccountInactive    = errors.New("ACCOUNT_INACTIVE")
    ErrEmailTaken         = errors.New("EMAIL_TAKEN")
    ErrInvalidTransition  = errors.New("INVALID_STATUS_TRANSITION")
    ErrNoResults          = errors.New("NO_RESULTS")
    ErrProviderFailure    = errors.New("PROVIDER_FAILURE")
    ErrInvalidToken       = errors.New("INVALID_TOKEN")
)
