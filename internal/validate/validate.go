// Package validate implements the mutation validator: field rules for
// every write the API accepts, plus the cross-record checks that need a
// read-only view of the store. Lookups are injected as narrow interfaces
// so the validator stays testable without a database.
package validate

import (
	"context"
	"regexp"
	"strings"
	"time"

	"reviewhub/internal/apperr"
)

const (
	maxUsernameLen = 150
	maxEmailLen    = 254

	// Usernames starting with this prefix would collide with the
	// self-service /users/me route.
	reservedUsernamePrefix = "me"
)

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	emailRe    = regexp.MustCompile(`^[A-Za-z0-9]+([.\-_][A-Za-z0-9]+)*@[A-Za-z0-9-]+(\.[A-Za-z]{2,})+$`)
)

// UserLookup is the read-only view of users the validator needs.
type UserLookup interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByUsernameAndCode(ctx context.Context, username, code string) (bool, error)
}

// ReviewLookup is the read-only view of reviews the validator needs.
type ReviewLookup interface {
	ExistsByTitleAuthor(ctx context.Context, titleID int64, authorID string) (bool, error)
}

// Validator evaluates mutation payloads. It holds no mutable state; the
// injected lookups are only read.
type Validator struct {
	users   UserLookup
	reviews ReviewLookup
	now     func() time.Time
}

// New builds a Validator over the given lookups.
func New(users UserLookup, reviews ReviewLookup) *Validator {
	return &Validator{users: users, reviews: reviews, now: time.Now}
}

// Username checks the sign-up username rules. Returns the message for the
// username field, or "" when valid.
func Username(username string) string {
	switch {
	case username == "":
		return "username is required"
	case len(username) > maxUsernameLen:
		return "username must be at most 150 characters"
	case !usernameRe.MatchString(username):
		return "username may only contain letters, digits, '-' and '_'"
	case strings.HasPrefix(username, reservedUsernamePrefix):
		return "username may not start with 'me'"
	}
	return ""
}

// Email checks the pragmatic RFC-5322 subset the API accepts. Returns the
// message for the email field, or "" when valid.
func Email(email string) string {
	switch {
	case email == "":
		return "email is required"
	case len(email) > maxEmailLen:
		return "email must be at most 254 characters"
	case !emailRe.MatchString(email):
		return "email is not a valid address"
	}
	return ""
}

// TitleYear rejects years after the current calendar year. There is no
// lower bound.
func (v *Validator) TitleYear(year int) string {
	if year > v.now().Year() {
		return "year must not be in the future"
	}
	return ""
}

// ReviewScore checks the inclusive [1,10] range.
func ReviewScore(score int) string {
	if score < 1 || score > 10 {
		return "score must be between 1 and 10"
	}
	return ""
}

// SignUp validates a sign-up payload, aggregating every field problem.
// A nil return means the payload is accepted as-is.
func (v *Validator) SignUp(username, email string) *apperr.ValidationError {
	verr := &apperr.ValidationError{}
	if msg := Username(username); msg != "" {
		verr.Add("username", msg)
	}
	if msg := Email(email); msg != "" {
		verr.Add("email", msg)
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

// Review validates a review payload. On create it additionally rejects a
// second review by the same author for the same title. The pre-check here
// is an optimization; the unique constraint in the store is authoritative
// and a violation surfaced at commit time must still be honored.
func (v *Validator) Review(ctx context.Context, titleID int64, authorID string, score int, create bool) error {
	verr := &apperr.ValidationError{}
	if msg := ReviewScore(score); msg != "" {
		verr.Add("score", msg)
	}
	if create {
		exists, err := v.reviews.ExistsByTitleAuthor(ctx, titleID, authorID)
		if err != nil {
			return err
		}
		if exists {
			verr.Add("", "duplicate review")
		}
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

// TokenExchange validates a (username, confirm_code) pair. An unknown
// username is NotFound on the username field; a known username with the
// wrong code is a plain validation failure.
func (v *Validator) TokenExchange(ctx context.Context, username, code string) error {
	verr := &apperr.ValidationError{}
	if username == "" {
		verr.Add("username", "username is required")
	}
	if code == "" {
		verr.Add("confirm_code", "confirm_code is required")
	}
	if verr.HasErrors() {
		return verr
	}

	known, err := v.users.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if !known {
		return &apperr.NotFoundField{Field: "username", Message: "user is not registered"}
	}

	ok, err := v.users.ExistsByUsernameAndCode(ctx, username, code)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Validation("", "unregistered pair")
	}
	return nil
}
