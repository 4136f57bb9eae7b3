package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBody(t *testing.T) {
	body := FormatBody(Submission{
		Name:    "Alice",
		Email:   "alice@x.com",
		Phone:   "555-0100",
		Message: "Hello there",
	})

	assert.Contains(t, body, "Name: Alice")
	assert.Contains(t, body, "Email: alice@x.com")
	assert.Contains(t, body, "Phone: 555-0100")
	assert.Contains(t, body, "Hello there")
}

func TestFormatBodyOmitsEmptyPhone(t *testing.T) {
	body := FormatBody(Submission{
		Name:    "Alice",
		Email:   "alice@x.com",
		Message: "Hello there",
	})

	assert.NotContains(t, body, "Phone:")
}
