package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"restaurant-dashboard/backend"
)

// fieldErrors turns a binding failure into per-field inline messages so
// missing form fields never get near the network layer.
func fieldErrors(err error) map[string]string {
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			name := strings.ToLower(fe.Field())
			switch fe.Tag() {
			case "required":
				fields[name] = "This field is required"
			case "min":
				fields[name] = "Value is too small"
			case "oneof":
				fields[name] = "Unsupported value"
			default:
				fields[name] = "Invalid value"
			}
		}
		return fields
	}
	fields["_"] = err.Error()
	return fields
}

func validationFailed(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":  "Validation failed",
		"fields": fieldErrors(err),
	})
}

// backendFailed maps client-layer errors onto the dashboard's responses. A
// 401 has already cleared the session, so the answer doubles as a prompt
// to sign in again.
func backendFailed(c *gin.Context, err error) {
	var ue *backend.UnauthorizedError
	if errors.As(err, &ue) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":    "Session expired, please sign in again",
			"body":     ue.Body,
			"redirect": "/login",
		})
		return
	}
	var le *backend.LoginError
	if errors.As(err, &le) {
		c.JSON(http.StatusBadGateway, gin.H{"error": le.Error()})
		return
	}
	var he *backend.HTTPError
	if errors.As(err, &he) {
		c.JSON(he.Status, gin.H{"error": he.Body})
		return
	}
	log.Printf("handlers: backend call failed: %v", err)
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}
