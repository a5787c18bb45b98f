package local

import "fmt"

type ClosedWalletError struct {
	Name string
}

func (e *ClosedWalletError) Error() string {
	return fmt.Sprintf("wallet %s is closed", e.Name)
}

type InvalidNameError struct {
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid wallet name: %q", e.Name)
}

type InvalidTransactionError struct {
	Reason string
}

func (e *InvalidTransactionError) Error() string {
	return fmt.Sprintf("invalid transaction: %s", e.Reason)
}

type CorruptedKeyFileError struct {
	Path   string
	Reason string
}

func (e *CorruptedKeyFileError) Error() string {
	return fmt.Sprintf("corrupted key file %s: %s", e.Path, e.Reason)
}
