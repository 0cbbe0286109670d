// Package translation defines the translation engine abstraction: the
// Provider interface every engine implements, the error taxonomy callers
// branch on, the canonical Result, and the Manager that owns engine
// selection and the style theme. Concrete engines live in the ondevice,
// gemini and openai subpackages.
package translation
