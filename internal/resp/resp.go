// Package resp 提供统一的HTTP JSON响应封装。
// 所有接口都返回 {code, message, data, request_id} 结构，
// code 为业务码（0 表示成功），与HTTP状态码相互独立。
package resp

import (
	"encoding/json"
	"net/http"
)

// Code 业务响应码
type Code int

const (
	CodeOK                   Code = 0
	CodeInvalidParam         Code = 1001 // 请求参数不合法
	CodeNotFound             Code = 1002 // 资源不存在
	CodeRequiresConfirmation Code = 1003 // 操作需要先经过确认流程
	CodeDuplicateRequest     Code = 1004 // 重复的幂等请求
	CodeTooManyRequests      Code = 1005 // 触发限流
	CodeUpstreamError        Code = 1006 // 上游目录服务异常
	CodeInternalError        Code = 1500 // 内部错误
	CodeTimeout              Code = 1504 // 请求超时
)

// HTTPStatusFromCode 返回业务码对应的默认HTTP状态码
func HTTPStatusFromCode(code Code) int {
	switch code {
	case CodeOK:
		return http.StatusOK
	case CodeInvalidParam:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRequiresConfirmation, CodeDuplicateRequest:
		return http.StatusConflict
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeUpstreamError:
		return http.StatusBadGateway
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Body 统一响应体
type Body struct {
	Code      Code        `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Detail    string      `json:"detail,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// write 序列化并写出响应体
func write(w http.ResponseWriter, status int, body *Body) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// OK 写出成功响应
func OK(w http.ResponseWriter, data interface{}, requestID, message string) {
	if message == "" {
		message = "ok"
	}
	write(w, http.StatusOK, &Body{
		Code:      CodeOK,
		Message:   message,
		Data:      data,
		RequestID: requestID,
	})
}

// Error 写出错误响应
func Error(w http.ResponseWriter, status int, code Code, message, requestID, detail string) {
	write(w, status, &Body{
		Code:      code,
		Message:   message,
		Detail:    detail,
		RequestID: requestID,
	})
}
