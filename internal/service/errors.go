package service

import (
	"Gazette/internal/pkg/media"
	"errors"
	"fmt"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
	BadGateway          = 502
)

// 错误类别，具体错误通过 errors.Is 归类
var (
	ErrValidation   = errors.New("参数校验失败")
	ErrNotFound     = errors.New("资源不存在")
	ErrUploadFailed = errors.New("媒体上传失败")
	ErrPersistence  = errors.New("数据写入失败")
)

var (
	ErrParamInvalid   = errors.New("参数错误")
	ErrCategoryExist  = errors.New("分类已存在")
	UnauthorizedError = errors.New("权限不足")
	UnExpectedError   = errors.New("系统异常，请稍后重试")
)

var (
	ErrPostNotFound     = &NotFoundError{Resource: "post"}
	ErrCategoryNotFound = &NotFoundError{Resource: "category"}
)

var (
	ErrFileRequired     = &ValidationError{Reason: "file required"}
	ErrNoFileAllowed    = &ValidationError{Reason: "no file allowed"}
	ErrEmptyPost        = &ValidationError{Reason: "empty post"}
	ErrFileTooLarge     = &ValidationError{Reason: "file too large"}
	ErrInvalidFileType  = &ValidationError{Reason: "invalid file type"}
	ErrInvalidTitle     = &ValidationError{Reason: "invalid title"}
	ErrInvalidMediaType = &ValidationError{Reason: "invalid media type"}
	ErrOwnerRequired    = &ValidationError{Reason: "owner required"}
)

// ValidationError 输入不满足校验规则，发生在任何 I/O 之前
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError 帖子或分类不存在
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// UploadFailure 媒体网关上传失败，此时没有任何持久化，无需补偿
type UploadFailure struct {
	Kind media.Kind
	Err  error
}

func (e *UploadFailure) Error() string {
	return fmt.Sprintf("upload %s failed: %v", e.Kind, e.Err)
}

func (e *UploadFailure) Unwrap() error {
	return e.Err
}

func (e *UploadFailure) Is(target error) bool {
	return target == ErrUploadFailed
}

// PersistenceFailure 仓储写入失败，已上传的媒体已尝试补偿删除
type PersistenceFailure struct {
	Op  string
	Err error
}

func (e *PersistenceFailure) Error() string {
	return fmt.Sprintf("persist %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceFailure) Unwrap() error {
	return e.Err
}

func (e *PersistenceFailure) Is(target error) bool {
	return target == ErrPersistence
}

var ErrorMap = map[error]int{
	ErrValidation:     BadRequest,
	ErrParamInvalid:   BadRequest,
	ErrNotFound:       NotFound,
	ErrCategoryExist:  Conflict,
	ErrUploadFailed:   BadGateway,
	ErrPersistence:    InternalServerError,
	UnauthorizedError: Forbidden,
	UnExpectedError:   InternalServerError,
}

// CodeOf 查找错误对应的业务码，未知错误返回 false
func CodeOf(err error) (int, bool) {
	if err == nil {
		return 0, false
	}
	if code, ok := ErrorMap[err]; ok {
		return code, true
	}
	for target, code := range ErrorMap {
		if errors.Is(err, target) {
			return code, true
		}
	}
	return 0, false
}

// MessageOf 对外展示的错误信息，上传和持久化失败不暴露底层原因
func MessageOf(err error) string {
	switch {
	case errors.Is(err, ErrUploadFailed):
		return ErrUploadFailed.Error()
	case errors.Is(err, ErrPersistence):
		return ErrPersistence.Error()
	}
	return err.Error()
}
