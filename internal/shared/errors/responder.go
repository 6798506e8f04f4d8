package errors

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// ErrorMapper translates an application error into a problem. It reports
// false when the error is not one it knows.
type ErrorMapper func(err error) (ProblemDetail, bool)

// ChainedResponder writes Problem Details responses, resolving errors through
// its mappers in order.
type ChainedResponder struct {
	// BaseURI is prepended to relative problem type URIs.
	BaseURI string
	mappers []ErrorMapper
}

// NewChainedResponder creates a responder that consults mappers in order.
func NewChainedResponder(baseURI string, mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{BaseURI: baseURI, mappers: mappers}
}

// Problem resolves err to the problem the client receives. Problems pass
// through untouched; errors no mapper recognizes become internal errors.
func (r *ChainedResponder) Problem(err error) ProblemDetail {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem
	}
	for _, mapper := range r.mappers {
		if mapped, ok := mapper(err); ok {
			return mapped
		}
	}
	return ErrInternal.WithDetail(err.Error())
}

// Respond writes problem with the problem+json content type. A missing
// instance defaults to the request path.
func (r *ChainedResponder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.BaseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.BaseURI + problem.Type
	}
	if problem.Instance == "" && c.Request != nil {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.AbortWithStatusJSON(problem.Status, problem)
}

// RespondError answers with the problem resolved for err.
func (r *ChainedResponder) RespondError(c *gin.Context, err error) {
	r.Respond(c, r.Problem(err))
}

// BadRequest answers a request the handler could not decode.
func (r *ChainedResponder) BadRequest(c *gin.Context, err error) {
	r.Respond(c, ErrBadRequest.WithDetail(err.Error()))
}
