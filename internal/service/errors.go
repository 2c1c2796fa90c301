package service

import "net/http"

// Error is a failure that is safe to show to clients.
type Error struct {
	Code    string
	Message string
	Status  int
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// Is matches errors by Code so validation errors with different messages
// still satisfy errors.Is(err, ErrValidation).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrValidation           = &Error{Code: "invalid_request", Message: "Permintaan tidak valid.", Status: http.StatusBadRequest}
	ErrDuplicateEmail       = &Error{Code: "duplicate_email", Message: "Email sudah terdaftar!", Status: http.StatusConflict}
	ErrInvalidCredentials   = &Error{Code: "invalid_credentials", Message: "Email atau password salah.", Status: http.StatusUnauthorized}
	ErrInvalidToken         = &Error{Code: "invalid_token", Message: "Token tidak valid atau kedaluwarsa.", Status: http.StatusUnauthorized}
	ErrUserNotFound         = &Error{Code: "not_found", Message: "User tidak ditemukan.", Status: http.StatusNotFound}
	ErrEmptyFunFact         = &Error{Code: "generation_failed", Message: "Gagal membuat fun fact.", Status: http.StatusInternalServerError}
	ErrGeneratorUnavailable = &Error{Code: "unavailable", Message: "Layanan fun fact belum dikonfigurasi.", Status: http.StatusServiceUnavailable}
)

func newValidationError(message string) *Error {
	return &Error{Code: ErrValidation.Code, Message: message, Status: http.StatusBadRequest}
}
