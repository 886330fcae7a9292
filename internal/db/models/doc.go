// Package models holds the gorm models: users and their personal access tokens.
package models
