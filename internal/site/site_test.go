package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseURL(t *testing.T) {
	assert.Equal(t, DefaultURL, BaseURL(""))
	assert.Equal(t, DefaultURL, BaseURL("   "))
	assert.Equal(t, "https://staging.example.com", BaseURL("https://staging.example.com/"))
	assert.Equal(t, "http://localhost:8080", BaseURL("http://localhost:8080"))
}
