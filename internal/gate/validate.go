package gate

import (
	"encoding/json"
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	maxNameLen    = 100
	maxEmailLen   = 320
	minMessageLen = 10
	maxMessageLen = 5000
	maxChatLen    = 500
)

// ContactForm is the contact endpoint request body. Company is a honeypot
// field: hidden from humans, filled in by naive form bots.
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
	Company string `json:"company"`
}

// Result reports structural validation of a submitted form.
type Result struct {
	IsValid bool
	Errors  []string
}

// ValidateName applies the contact-form name rule to a single field.
func ValidateName(name string) []string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return []string{"Name is required"}
	}
	if utf8.RuneCountInString(trimmed) > maxNameLen {
		return []string{"Name must be less than 100 characters"}
	}
	return nil
}

// ValidateEmail applies the contact-form email rule to a single field.
func ValidateEmail(email string) []string {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return []string{"Email is required"}
	}
	if utf8.RuneCountInString(trimmed) > maxEmailLen {
		return []string{"Email address is too long"}
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return []string{"Please enter a valid email address"}
	}
	return nil
}

// ValidateMessage applies the contact-form message rule to a single field.
func ValidateMessage(message string) []string {
	trimmed := strings.TrimSpace(message)
	n := utf8.RuneCountInString(trimmed)
	if n < minMessageLen {
		return []string{"Message must be at least 10 characters long"}
	}
	if n > maxMessageLen {
		return []string{"Message must be less than 5000 characters"}
	}
	return nil
}

// ValidateContact validates a whole contact form. Each field is checked with
// the same per-field rule used for live single-field validation, so the two
// call paths always agree.
func ValidateContact(form ContactForm) Result {
	var errs []string
	errs = append(errs, ValidateName(form.Name)...)
	errs = append(errs, ValidateEmail(form.Email)...)
	errs = append(errs, ValidateMessage(form.Message)...)
	if len(errs) > 0 {
		return Result{IsValid: false, Errors: errs}
	}
	return Result{IsValid: true}
}

// IsBot reports whether a honeypot value indicates an automated submitter.
// Whitespace-only values do not count; the field must carry real content.
func IsBot(honeypot string) bool {
	return strings.TrimSpace(honeypot) != ""
}

// ValidateChat narrows a raw JSON "message" value into a chat message.
// Anything that is not a JSON string of 1 to 500 characters is rejected.
func ValidateChat(raw json.RawMessage) (string, Result) {
	if len(raw) == 0 {
		return "", Result{Errors: []string{"Message is required"}}
	}
	var message string
	if err := json.Unmarshal(raw, &message); err != nil {
		return "", Result{Errors: []string{"Message must be text"}}
	}
	n := utf8.RuneCountInString(message)
	if n < 1 || n > maxChatLen {
		return "", Result{Errors: []string{"Message must be between 1 and 500 characters"}}
	}
	return message, Result{IsValid: true}
}
