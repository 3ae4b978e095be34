// Package checks provides targeted assertions about a type's surface.
//
// Supported checks:
//   - NotNil: guard a value and hand it back for chaining
//   - Cast: safe downcast with a typed diagnostic
//   - Accessors: read/write capability of a property under a visibility mask
//   - EqualityContract: symmetric equality, hash agreement and the
//     Equal-method convention between two values
//
// All checks report through a TestingT (satisfied by *testing.T) and fail
// fast the way require does.
package checks
