package middleware

import (
	"encoding/json"
	"net/http"
)

const (
	MsgUnauthorized    = "انتهت الجلسة أو بيانات الدخول غير صالحة، يرجى تسجيل الدخول"
	MsgForbidden       = "ليس لديك صلاحية للقيام بهذا الإجراء"
	MsgTooManyRequests = "عدد كبير من المحاولات، يرجى المحاولة لاحقاً"
)

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WriteError writes the standard failure body.
func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Success: false, Message: message})
}
