package response

import (
	"Gazette/internal/api/dto"
	"Gazette/internal/service"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, err error) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, err)

	var body dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestErrorMapping(t *testing.T) {
	w, body := serve(t, service.ErrFileRequired)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, BadRequest, body.Code)
	assert.Equal(t, "file required", body.Message)

	w, body = serve(t, service.ErrPostNotFound)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = serve(t, &service.PersistenceFailure{Op: "create", Err: errors.New("dsn leaked")})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, body.Message, "dsn leaked")

	w, body = serve(t, &service.UploadFailure{Err: errors.New("s3 down")})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, service.ErrUploadFailed.Error(), body.Message)

	w, body = serve(t, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, service.UnExpectedError.Error(), body.Message)
}

func TestDecodeErrorsAreBadRequest(t *testing.T) {
	var flag struct {
		On bool `json:"on"`
	}
	typeErr := stdjson.Unmarshal([]byte(`{"on":"yes"}`), &flag)
	syntaxErr := stdjson.Unmarshal([]byte(`{"on":}`), &flag)
	goTypeErr := json.Unmarshal([]byte(`{"on":"yes"}`), &flag)
	_, numErr := strconv.Atoi("abc")

	for _, err := range []error{
		typeErr,
		syntaxErr,
		goTypeErr,
		io.ErrUnexpectedEOF,
		fmt.Errorf("bind: %w", numErr),
	} {
		require.Error(t, err)
		w, body := serve(t, err)
		assert.Equal(t, http.StatusBadRequest, w.Code, err.Error())
		assert.Equal(t, BadRequest, body.Code)
	}
}

func TestBindError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	BindError(c, io.EOF)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, service.ErrParamInvalid.Error(), body.Message)
}

func TestSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, gin.H{"ok": true})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":200,"message":"success","data":{"ok":true}}`, w.Body.String())
}
