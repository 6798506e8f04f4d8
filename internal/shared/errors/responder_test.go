package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errOrderGone = errors.New("order gone")

func goneMapper(err error) (ProblemDetail, bool) {
	if errors.Is(err, errOrderGone) {
		return ErrNotFound.WithDetail(err.Error()), true
	}
	return ProblemDetail{}, false
}

func serve(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/v1/orders/:orderId", handler)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/orders/o-1", nil))
	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec, problem
}

func TestChainedResponder_ProblemResolution(t *testing.T) {
	responder := NewChainedResponder("", goneMapper)

	mapped := responder.Problem(fmt.Errorf("lookup: %w", errOrderGone))
	assert.Equal(t, TypeNotFound, mapped.Type)
	assert.Equal(t, "lookup: order gone", mapped.Detail)

	passthrough := responder.Problem(fmt.Errorf("wrapped: %w", ErrPaymentRequired))
	assert.Equal(t, http.StatusPaymentRequired, passthrough.Status)

	fallback := responder.Problem(errors.New("disk on fire"))
	assert.Equal(t, TypeInternal, fallback.Type)
	assert.Equal(t, "disk on fire", fallback.Detail)
}

func TestChainedResponder_RespondErrorWritesProblemJSON(t *testing.T) {
	responder := NewChainedResponder("https://laundry.example", goneMapper)

	rec, problem := serve(t, func(c *gin.Context) {
		responder.RespondError(c, errOrderGone)
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	assert.Equal(t, "https://laundry.example"+TypeNotFound, problem.Type)
	assert.Equal(t, "/v1/orders/o-1", problem.Instance)
}

func TestChainedResponder_BadRequest(t *testing.T) {
	responder := NewChainedResponder("")

	rec, problem := serve(t, func(c *gin.Context) {
		responder.BadRequest(c, errors.New("version must be a number"))
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, TypeBadRequest, problem.Type)
	assert.Equal(t, "version must be a number", problem.Detail)
}
