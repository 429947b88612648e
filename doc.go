// Package main starts applytrack, a REST backend that tracks job applications
// and their contacts behind JWT authentication and role based permissions.
package main
