// Package web assembles the fiber application: middleware, the JSON API,
// health and metrics endpoints and the SPA shell.
package web
