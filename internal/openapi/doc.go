// Package openapi implements the vendor cloud HTTP API client.
//
// Every request is signed with an HMAC-SHA256 signature derived from the
// account token, a millisecond timestamp, and a random nonce. The client
// exposes two operations: fetching a device's current status and sending
// a command. Vendor responses carry a numeric status code in the body
// that is distinct from the HTTP status; interpretation of those codes
// lives in the StatusCodeInterpreter and is purely advisory, so a
// malformed or unknown code can never abort a poll or push cycle.
package openapi
