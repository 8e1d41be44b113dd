package domain

import "errors"

var (
	// ErrNoCredential is returned when no bearer token is found in any
	// of the accepted handshake locations.
	ErrNoCredential = errors.New("no credential supplied")
	// ErrInvalidCredential is returned when a token fails signature or
	// expiry verification.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrUnknownIdentity is returned when a token verifies but no user
	// record exists for it.
	ErrUnknownIdentity = errors.New("unknown identity")

	// ErrUnknownQuestion indicates a submitted answer references a
	// question that is not part of the quiz; the submission is aborted.
	ErrUnknownQuestion = errors.New("unknown question")
	// ErrEmptyQuestionSet indicates the quiz has no questions to grade against.
	ErrEmptyQuestionSet = errors.New("empty question set")

	// ErrUserNotFound indicates the requested user record does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrNameTaken indicates the display name is already registered.
	ErrNameTaken = errors.New("name already taken")
	// ErrQuizNotFound indicates the quiz could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates the question record does not exist.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrResultNotFound indicates the result record does not exist.
	ErrResultNotFound = errors.New("result not found")
	// ErrForbidden indicates the identity may not access the resource.
	ErrForbidden = errors.New("forbidden")
)
