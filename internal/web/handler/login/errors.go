// Package login provides the HTTP handler that exchanges credentials for an access token.
//
// This file defines exported error messages used throughout the login flow.
package login

const (
	// MsgInvalidCredentials is answered when email and password do not match a user.
	MsgInvalidCredentials = "Invalid email or password."

	// MsgLoginFailed is answered for unexpected failures during the login process.
	MsgLoginFailed = "Error logging in."
)
