package domain_test

import (
	"net/http"
	"testing"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNewProblem(t *testing.T) {
	p := domain.NewProblem(http.StatusConflict, "Only draft invoices can be sent")
	assert.Equal(t, domain.ErrorTypeConflict, p.Type)
	assert.Equal(t, "Conflict", p.Title)
	assert.Equal(t, "Only draft invoices can be sent", p.Error())

	p = domain.NewProblem(http.StatusBadGateway, "")
	assert.Equal(t, domain.ErrorTypeInternal, p.Type)
	assert.Equal(t, "Bad Gateway", p.Error())
}

func TestValidationMessage(t *testing.T) {
	assert.Equal(t, "Must be a valid email address", domain.ValidationMessage("email"))
	assert.Equal(t, "Validation failed: iban", domain.ValidationMessage("iban"))
}
