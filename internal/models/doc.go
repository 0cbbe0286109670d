// Package models provides functionality for listing and categorizing the
// Gemini models available to an API key. It helps operators pick a model
// for the relay service.
package models
