// internal/model/error.go
package model

import "errors"

// アプリケーション固有のエラー
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInternalServer      = errors.New("internal server error")
	ErrConflict            = errors.New("resource conflict") // 重複エラー用
	ErrTenantNotProvided   = errors.New("tenant was not provided")
	ErrTenantInvalid       = errors.New("tenant is invalid or inactive")
	ErrTenantAlreadySet    = errors.New("a different tenant is already bound to this context")
	ErrConfiguration       = errors.New("configuration error")
	ErrProvisioningPartial = errors.New("tenant record saved but schema provisioning failed")
)

// ErrorDetail はエラーレスポンスの本体です
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// APIErrorResponse はAPIエラーレスポンスの構造体
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// AppError はクライアント向けの詳細と根本原因のエラーを保持します
type AppError struct {
	Detail ErrorDetail
	Err    error
}

func NewAppError(code, message, field string, err error) *AppError {
	return &AppError{
		Detail: ErrorDetail{Code: code, Message: message, Field: field},
		Err:    err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Detail.Message + ": " + e.Err.Error()
	}
	return e.Detail.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}
