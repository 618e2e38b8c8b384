/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package metadata

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	errSearchClientMissing = errors.New("search client is not available")
	errPolicyStoreMissing  = errors.New("policy store is not available")
	errEndpointUnenrolled  = errors.New("the requested endpoint is unenrolled")
	errInvalidHostStatus   = errors.New("invalid host status")
)

// StatusError is a failure that carries the HTTP status it maps to at the API boundary.
type StatusError struct {
	Status  int
	Message string
	Err     error
}

func (e *StatusError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// BadRequest wraps err as a 400 with message.
func BadRequest(message string, err error) *StatusError {
	return &StatusError{Status: http.StatusBadRequest, Message: message, Err: err}
}

// NotFound returns a 404 with message.
func NotFound(message string) *StatusError {
	return &StatusError{Status: http.StatusNotFound, Message: message}
}

// StatusCode reports the HTTP status for err, 500 for anything that is not a StatusError.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status
	}

	return http.StatusInternalServerError
}
