// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package fserr classifies filesystem failures into the small set of kinds
// the file manager reports to the user.
package fserr

import (
	"context"
	"fmt"
	"io/fs"
	"syscall"

	"gitlab.com/tozd/go/errors"
)

// 🏷️ Kind is the user-facing category of a failure
type Kind int

const (
	KindUnknown Kind = iota
	KindAccessDenied
	KindNotFound
	KindSourceNotFound
	KindIOFailure
	KindConflict
	KindInvalidParameter
	KindCanceledByUser
)

func (k Kind) String() string {
	switch k {
	case KindAccessDenied:
		return "access denied"
	case KindNotFound:
		return "not found"
	case KindSourceNotFound:
		return "source not found"
	case KindIOFailure:
		return "i/o failure"
	case KindConflict:
		return "conflict detected"
	case KindInvalidParameter:
		return "invalid parameter"
	case KindCanceledByUser:
		return "canceled by user"
	default:
		return "unknown"
	}
}

// ErrCanceledByUser is returned by host prompts when the user dismisses them.
var ErrCanceledByUser = New(KindCanceledByUser, "prompt", "", nil)

// 🎯 Error is a classified filesystem failure
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

// 🏭 New creates a classified error
func New(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// 🏭 Wrap classifies err and attaches the operation and path
func Wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) && fe.Path != "" {
		return err
	}
	return New(Classify(err), op, path, err)
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Path)
	}
	msg = fmt.Sprintf("%s: %s", msg, e.Kind)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, so callers can compare against
// a bare kind sentinel such as &Error{Kind: KindConflict}.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Path == "" || t.Path == e.Path)
}

// 🔍 Classify maps an error onto a Kind
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceledByUser
	case errors.Is(err, fs.ErrPermission):
		return KindAccessDenied
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, fs.ErrExist):
		return KindConflict
	case errors.Is(err, fs.ErrInvalid):
		return KindInvalidParameter
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EACCES, syscall.EPERM:
			return KindAccessDenied
		case syscall.ENOENT, syscall.ENOTDIR:
			return KindNotFound
		case syscall.EEXIST, syscall.ENOTEMPTY:
			return KindConflict
		}
	}

	return KindIOFailure
}

// IsKind reports whether err classifies as kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && Classify(err) == kind
}

// 📝 Message renders err as the warning text shown to the user
func Message(err error) string {
	if err == nil {
		return ""
	}
	var fe *Error
	if !errors.As(err, &fe) {
		return fmt.Sprintf("%s: %v", Classify(err), err)
	}
	switch fe.Kind {
	case KindAccessDenied:
		return fmt.Sprintf("Access to %q was denied", fe.Path)
	case KindNotFound:
		return fmt.Sprintf("%q no longer exists", fe.Path)
	case KindSourceNotFound:
		return fmt.Sprintf("Source %q is not a directory or does not exist", fe.Path)
	case KindConflict:
		return fmt.Sprintf("%q already exists", fe.Path)
	case KindInvalidParameter:
		if fe.Err != nil {
			return fmt.Sprintf("Invalid %s: %v", fe.Op, fe.Err)
		}
		return fmt.Sprintf("Invalid %s", fe.Op)
	case KindCanceledByUser:
		return "Operation canceled"
	default:
		if fe.Path == "" {
			return fmt.Sprintf("%s failed: %v", fe.Op, fe.Err)
		}
		return fmt.Sprintf("%s %q failed: %v", fe.Op, fe.Path, fe.Err)
	}
}
