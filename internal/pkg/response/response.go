package response

import (
	"Gazette/internal/api/dto"
	"Gazette/internal/service"
	"encoding/json"
	"errors"
	"io"
	log "log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	gojson "github.com/goccy/go-json"
)

const (
	Ok                  = 200
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

// Success 成功返回封装
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.Response{
		Code:    Ok,
		Message: "success",
		Data:    data,
	})
}

// Fail 失败返回封装，HTTP 状态码与业务码一致
func Fail(c *gin.Context, businessCode int, message string) {
	status := businessCode
	if http.StatusText(status) == "" {
		status = http.StatusInternalServerError
	}
	c.JSON(status, dto.Response{
		Code:    businessCode,
		Message: message,
		Data:    nil,
	})
}

// Error 处理错误
func Error(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		Fail(c, BadRequest, "参数错误")
		return
	}

	if isDecodeError(err) {
		Fail(c, BadRequest, "Json错误")
		return
	}

	var numError *strconv.NumError
	if errors.As(err, &numError) {
		Fail(c, BadRequest, service.ErrParamInvalid.Error())
		return
	}

	code, ok := service.CodeOf(err)
	if !ok {
		log.ErrorContext(c.Request.Context(), "Error", "err", err)
		Fail(c, InternalServerError, service.UnExpectedError.Error())
		return
	}
	if code >= InternalServerError {
		log.ErrorContext(c.Request.Context(), "Error", "err", err)
	}
	Fail(c, code, service.MessageOf(err))
}

// BindError 请求绑定失败统一按参数错误返回
func BindError(c *gin.Context, err error) {
	log.DebugContext(c.Request.Context(), "bind request failed", "err", err)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) && isDecodeError(err) {
		Fail(c, BadRequest, "Json错误")
		return
	}
	Fail(c, BadRequest, service.ErrParamInvalid.Error())
}

// isDecodeError gin 按编译标签使用标准库或 go-json 解码，两种错误都要识别
func isDecodeError(err error) bool {
	var (
		typeErr     *json.UnmarshalTypeError
		syntaxErr   *json.SyntaxError
		goTypeErr   *gojson.UnmarshalTypeError
		goSyntaxErr *gojson.SyntaxError
	)
	return errors.As(err, &typeErr) || errors.As(err, &syntaxErr) ||
		errors.As(err, &goTypeErr) || errors.As(err, &goSyntaxErr) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}
