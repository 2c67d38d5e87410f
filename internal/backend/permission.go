package backend

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/roach88/tutorbook/internal/model"
)

// PermissionMode is the access level requested on a file handle.
type PermissionMode string

const (
	ModeRead      PermissionMode = "read"
	ModeReadWrite PermissionMode = "readwrite"
)

// PermissionState is the answer to a permission query or request.
type PermissionState string

const (
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
	PermissionPrompt  PermissionState = "prompt"
)

// Authorizer answers whether a file handle may be used. Request may block
// while the user is asked.
type Authorizer interface {
	Query(ctx context.Context, path string, mode PermissionMode) (PermissionState, error)
	Request(ctx context.Context, path string, mode PermissionMode) (PermissionState, error)
}

// verifyPermission queries, then requests, and fails with a permission error
// unless one of them grants access.
func verifyPermission(ctx context.Context, auth Authorizer, path string, mode PermissionMode) error {
	state, err := auth.Query(ctx, path, mode)
	if err != nil {
		return fmt.Errorf("query %s permission: %w", mode, err)
	}
	if state == PermissionGranted {
		return nil
	}
	state, err = auth.Request(ctx, path, mode)
	if err != nil {
		return fmt.Errorf("request %s permission: %w", mode, err)
	}
	if state == PermissionGranted {
		return nil
	}
	if mode == ModeRead {
		return model.NewPermissionError(
			"read access to the data file was denied; grant access again or switch to the fallback store (tutorbook storage to-fallback)", nil)
	}
	return model.NewPermissionError(
		"changes could not be saved because write access to the data file was denied", nil)
}

// OSAuthorizer derives permission from the operating system by opening the
// file with the requested access mode. It cannot prompt, so Request repeats
// the check.
type OSAuthorizer struct{}

func (OSAuthorizer) Query(_ context.Context, path string, mode PermissionMode) (PermissionState, error) {
	flag := os.O_RDONLY
	if mode == ModeReadWrite {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(path, flag, 0)
	if err == nil {
		f.Close()
		return PermissionGranted, nil
	}
	if errors.Is(err, fs.ErrPermission) {
		return PermissionDenied, nil
	}
	return PermissionDenied, err
}

func (a OSAuthorizer) Request(ctx context.Context, path string, mode PermissionMode) (PermissionState, error) {
	return a.Query(ctx, path, mode)
}
