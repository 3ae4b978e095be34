// Package fixture provides generated test-data functions for accordance
// specs and tests.
//
// Available functions:
//   - uuid(): random UUID v4
//   - now(): current time in RFC 3339
//   - timestamp() / timestampMs(): current Unix time in seconds / millis
//   - date(format, offsetDays): formatted date, optionally shifted
//   - randomInt(min, max): random integer in range
//   - randomString(length): random alphanumeric string
//   - randomAlphanumeric(length): random alphanumeric string
//   - randomEmail(): random name@domain.com address
//
// Functions are invoked through {{functionName(args)}} placeholders in
// spec literals, resolved with Resolve.
package fixture
