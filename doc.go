// Package main provides the entry point of auth-starter, an authentication
// and role based access control service. It serves a JSON API for login,
// registration, bearer tokens and admin user management on top of a fiber
// web server and gorm, and the single page application that uses it.
package main
