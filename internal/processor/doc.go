// Package processor glues the command surface to the translation manager:
// engine and theme selection, OCR image staging, repeat-submission
// suppression, history recording and the batch/interactive loops.
package processor
