// Package models defines the data the storefront client exchanges with the
// backend and keeps in local storage.
package models
