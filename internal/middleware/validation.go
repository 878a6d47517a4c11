package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// NewOpenAPIValidator creates a Gin middleware that validates incoming requests
// against the provided OpenAPI 3 spec. Requests for routes missing from the
// spec get 404, invalid ones 400.
func NewOpenAPIValidator(spec *openapi3.T) (gin.HandlerFunc, error) {
	// Reason: clear servers so the router matches paths without a server URL prefix
	spec.Servers = nil

	router, err := gorillamux.NewRouter(spec)
	if err != nil {
		return nil, fmt.Errorf("creating openapi router: %w", err)
	}

	return validatorHandler(router), nil
}

func validatorHandler(router routers.Router) gin.HandlerFunc {
	return func(c *gin.Context) {
		route, pathParams, err := router.FindRoute(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"message": "route not found in API specification",
			})
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    c.Request,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				// Reason: guest endpoints are unauthenticated
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}

		if err := openapi3filter.ValidateRequest(c.Request.Context(), input); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"path":      c.Request.URL.Path,
				"operation": route.Operation.OperationID,
			}).Warn("request validation failed")

			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"message": validationMessage(err),
			})
			return
		}

		c.Next()
	}
}

// validationMessage turns kin-openapi errors into a short "where: why" text.
func validationMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if !errors.As(err, &reqErr) {
		return sanitizeValidationError(err)
	}

	where := "request body"
	if reqErr.Parameter != nil {
		where = fmt.Sprintf("%s parameter %q", reqErr.Parameter.In, reqErr.Parameter.Name)
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(reqErr.Err, &schemaErr) {
		if ptr := schemaErr.JSONPointer(); len(ptr) > 0 {
			where = fmt.Sprintf("%s field %q", where, strings.Join(ptr, "."))
		}
		return fmt.Sprintf("%s: %s", where, schemaErr.Reason)
	}
	if reqErr.Reason != "" {
		return fmt.Sprintf("%s: %s", where, reqErr.Reason)
	}
	return fmt.Sprintf("%s: %s", where, sanitizeValidationError(reqErr.Err))
}

func sanitizeValidationError(err error) string {
	if err == nil {
		return "invalid request"
	}
	msg := err.Error()
	// Reason: kin-openapi wraps errors verbosely; trim to the useful part
	if idx := strings.Index(msg, "Schema:"); idx >= 0 {
		msg = strings.TrimSpace(msg[:idx])
	}
	return msg
}
