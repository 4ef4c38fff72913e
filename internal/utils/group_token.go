package utils

// allocationGroupTokenBytes yields an 8-character hex token.
const allocationGroupTokenBytes = 4

// NewAllocationGroupToken generates the short random token shared by the
// entries of one split submission. Callers must check it is unused.
func NewAllocationGroupToken() (string, error) {
	return GenerateSecureRandomString(allocationGroupTokenBytes)
}
