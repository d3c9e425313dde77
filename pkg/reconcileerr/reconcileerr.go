/*
Copyright 2019 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package reconcileerr classifies reconcile failures into the taxonomy
// described by the error handling design: permanent (halt, surface via
// condition), transient (requeue with delay), and unknown (treated as
// transient). This is the typed Go stand-in for errors a Python operator
// would raise as kopf.PermanentError / kopf.TemporaryError.
package reconcileerr

import "time"

// PermanentError halts reconciliation; it is never retried and is
// surfaced via a Failed condition.
type PermanentError struct {
	msg string
}

func (e *PermanentError) Error() string { return e.msg }

// Permanent wraps msg as a PermanentError.
func Permanent(msg string) error {
	return &PermanentError{msg: msg}
}

// TransientError requests a requeue after Delay.
type TransientError struct {
	msg   string
	Delay time.Duration
}

func (e *TransientError) Error() string { return e.msg }

// DefaultTransientDelay is used when a caller doesn't specify one
// (spec.md: "retry after ~60s").
const DefaultTransientDelay = 60 * time.Second

// Transient wraps msg as a TransientError with the default 60s delay.
func Transient(msg string) error {
	return &TransientError{msg: msg, Delay: DefaultTransientDelay}
}

// TransientAfter wraps msg as a TransientError with an explicit delay.
func TransientAfter(msg string, delay time.Duration) error {
	return &TransientError{msg: msg, Delay: delay}
}

// Classify returns the TransientError/PermanentError view of err, or
// (nil, nil) when err is neither — callers treat that "unknown"
// case as transient per the error taxonomy.
func Classify(err error) (transient *TransientError, permanent *PermanentError) {
	switch e := err.(type) {
	case *TransientError:
		return e, nil
	case *PermanentError:
		return nil, e
	default:
		return nil, nil
	}
}
