package common

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the account core reports.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInvalidInput
	KindAuthenticationFailed
	KindStorageError
	KindWalletNotFound
	KindNameAlreadyExists
	KindInvalidRecoveryMaterial
	KindCreationFailed
	KindDecryptionFailed
	KindWalletLoadFailed
	KindNoActiveWallet
)

var kindNames = map[ErrorKind]string{
	KindUnknown:                 "unknown error",
	KindInvalidInput:            "invalid input",
	KindAuthenticationFailed:    "authentication failed",
	KindStorageError:            "storage error",
	KindWalletNotFound:          "wallet not found",
	KindNameAlreadyExists:       "name already exists",
	KindInvalidRecoveryMaterial: "invalid recovery material",
	KindCreationFailed:          "creation failed",
	KindDecryptionFailed:        "decryption failed",
	KindWalletLoadFailed:        "wallet load failed",
	KindNoActiveWallet:          "no active wallet",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("error kind %d", int(k))
}

// Error is a typed failure. Op names the operation that failed, Err keeps the cause.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidInput            = &Error{Kind: KindInvalidInput}
	ErrAuthenticationFailed    = &Error{Kind: KindAuthenticationFailed}
	ErrStorage                 = &Error{Kind: KindStorageError}
	ErrWalletNotFound          = &Error{Kind: KindWalletNotFound}
	ErrNameAlreadyExists       = &Error{Kind: KindNameAlreadyExists}
	ErrInvalidRecoveryMaterial = &Error{Kind: KindInvalidRecoveryMaterial}
	ErrCreationFailed          = &Error{Kind: KindCreationFailed}
	ErrDecryptionFailed        = &Error{Kind: KindDecryptionFailed}
	ErrWalletLoadFailed        = &Error{Kind: KindWalletLoadFailed}
	ErrNoActiveWallet          = &Error{Kind: KindNoActiveWallet}
)

// NewError builds a typed error. A cause that already carries the same kind is not wrapped twice.
func NewError(kind ErrorKind, op string, cause error) *Error {
	var typed *Error
	if errors.As(cause, &typed) && typed.Kind == kind {
		return &Error{Kind: kind, Op: op, Err: typed.Err}
	}
	return &Error{Kind: kind, Op: op, Err: cause}
}

// KindOf returns the kind of the outermost typed error in err's chain.
func KindOf(err error) ErrorKind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return KindUnknown
}

// IsFault reports errors that signal a sequencing bug in the caller rather than a user-facing condition.
// Untyped errors are faults too: every expected failure is typed. An abandoned wait is neither.
func IsFault(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	kind := KindOf(err)
	return kind == KindNoActiveWallet || kind == KindUnknown
}

// IsRecoverable reports typed failures the caller can surface to the user and retry or re-prompt.
func IsRecoverable(err error) bool {
	return err != nil && !IsFault(err)
}
