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

// Package record is a thin wrapper over client-go's EventRecorder that
// turns an optional error into Normal/Warning event type selection, so
// call sites don't need an if/else at every emit point.
package record

import (
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
)

// Recorder emits Kubernetes events for reconcile-observable actions.
type Recorder interface {
	EmitEvent(object runtime.Object, reason string, err error, keysAndValues ...interface{})
}

type recorder struct {
	apiRecorder record.EventRecorder
}

// New wraps r as a Recorder.
func New(r record.EventRecorder) Recorder {
	return &recorder{apiRecorder: r}
}

// EmitEvent records a Normal event when err is nil, or a Warning event
// carrying err's message when it isn't. A nil object is a no-op, matching
// the case where the owning resource couldn't be resolved yet.
func (r *recorder) EmitEvent(object runtime.Object, reason string, err error, keysAndValues ...interface{}) {
	if object == nil {
		return
	}
	if err == nil {
		r.apiRecorder.Event(object, corev1.EventTypeNormal, reason, messageFrom(reason, nil, keysAndValues))
		return
	}
	r.apiRecorder.Event(object, corev1.EventTypeWarning, reason, messageFrom(reason, err, keysAndValues))
}

func messageFrom(reason string, err error, keysAndValues []interface{}) string {
	msg := reason
	if err != nil {
		msg += ": " + err.Error()
	}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		msg += " "
		if s, ok := keysAndValues[i].(string); ok {
			msg += s
		}
		msg += "="
		msg += toString(keysAndValues[i+1])
	}
	return msg
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return "(unprintable)"
}
