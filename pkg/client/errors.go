package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Localized messages produced on the client side.
const (
	msgNetwork         = "تعذر الاتصال بالخادم، يرجى المحاولة لاحقاً"
	msgServer          = "حدث خطأ في الخادم، يرجى المحاولة لاحقاً"
	msgUnauthorized    = "غير مصرح، يرجى تسجيل الدخول"
	msgForbidden       = "ليس لديك صلاحية للقيام بهذا الإجراء"
	msgNotFound        = "العنصر المطلوب غير موجود"
	msgTooMany         = "محاولات كثيرة، يرجى المحاولة لاحقاً"
	msgLoginFailed     = "البريد الإلكتروني أو كلمة المرور غير صحيحة"
	msgInviteInvalid   = "رابط الدعوة غير صالح أو منتهي الصلاحية"
	msgInvalidEmail    = "البريد الإلكتروني غير صالح"
	msgPasswordShort   = "كلمة المرور يجب أن تكون 6 أحرف على الأقل"
	msgPasswordLong    = "كلمة المرور طويلة جداً"
	msgPasswordSame    = "كلمة المرور الجديدة يجب أن تختلف عن الحالية"
	msgPasswordConfirm = "كلمتا المرور غير متطابقتين"
	msgRequired        = "يرجى تعبئة جميع الحقول المطلوبة"
	msgInvalidRole     = "الدور المحدد غير صالح"
)

var (
	// ErrNotConfirmed is returned by destructive calls whose Confirm func is
	// missing or declined. No request is sent.
	ErrNotConfirmed = errors.New("action not confirmed")
	// ErrOwnerOnly is returned before the network call when the live session
	// is not an owner.
	ErrOwnerOnly = &APIError{Status: http.StatusForbidden, Message: msgForbidden}
)

// APIError is the error type returned for rejected, failed or invalid calls.
// Status is 0 for validation and network failures.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches on status so errors.Is(err, ErrOwnerOnly) holds for any 403.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Status != 0 && t.Status == e.Status
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func IsUnauthorized(err error) bool { return statusOf(err) == http.StatusUnauthorized }

func IsForbidden(err error) bool { return statusOf(err) == http.StatusForbidden }

func IsNotFound(err error) bool { return statusOf(err) == http.StatusNotFound }

// IsValidation reports an input error caught before any request was made.
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 0 && apiErr.Err == nil
}

// Message returns the user-facing text for any error.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if errors.Is(err, ErrNotConfirmed) {
		return "تم إلغاء العملية"
	}
	return msgServer
}

func invalid(message string) *APIError {
	return &APIError{Message: message}
}

func defaultMessage(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return msgUnauthorized
	case http.StatusForbidden:
		return msgForbidden
	case http.StatusNotFound:
		return msgNotFound
	case http.StatusTooManyRequests:
		return msgTooMany
	default:
		return msgServer
	}
}
