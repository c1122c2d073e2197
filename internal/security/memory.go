// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package security

// SecureString holds a sensitive value, such as a recognition service API
// key, in a mutable buffer that can be scrubbed on Clear.
//
// Limitations: the Go runtime may move or copy memory at any time, and
// String() produces an immutable copy that cannot be zeroed. Clear reduces
// the window during which the value sits in the heap but cannot guarantee
// that no copies remain. Do not treat this as cryptographic-strength
// memory protection.
type SecureString struct {
	data []byte
}

// NewSecureString copies s into a mutable buffer.
func NewSecureString(s string) *SecureString {
	data := make([]byte, len(s))
	copy(data, s)
	return &SecureString{data: data}
}

// String returns the held value. Each call creates an immutable copy that
// Clear cannot reach, so call it only at the point of use.
func (ss *SecureString) String() string {
	return string(ss.data)
}

// IsEmpty reports whether the held value is empty or already cleared.
func (ss *SecureString) IsEmpty() bool {
	return len(ss.data) == 0
}

// Clear overwrites the buffer with zeros and releases it.
func (ss *SecureString) Clear() {
	for i := range ss.data {
		ss.data[i] = 0
	}
	ss.data = nil
}
