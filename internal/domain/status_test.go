package domain

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodes(t *testing.T) {
	codes := StatusCodes()
	assert.Len(t, codes, 13)

	for _, c := range codes {
		assert.True(t, c.Known(), c)
		assert.NotEmpty(t, c.Message(), c)
	}

	assert.Equal(t, StatusSuccessful, CodeExecuted.Status())
	assert.Equal(t, StatusPending, CodeScheduled.Status())
	assert.Equal(t, StatusFailed, CodeInsufficientFunds.Status())

	assert.False(t, StatusCode("ZZ99").Known())
	assert.Equal(t, CodeMalformed.Message(), StatusCode("ZZ99").Message())
}

func TestStatus_HTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, StatusSuccessful.HTTPStatus())
	assert.Equal(t, http.StatusOK, StatusPending.HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, StatusFailed.HTTPStatus())
}
