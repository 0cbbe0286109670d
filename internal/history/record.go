package history

import (
	"time"

	"github.com/thisisbailin/spur/internal/catalog"
	"github.com/thisisbailin/spur/internal/translation"
)

// Record is one persisted translation transaction. Records are owned by the
// Store; callers hold read snapshots and mutate through Store operations.
type Record struct {
	ID             int64
	OriginalText   string
	TranslatedText string
	SourceLanguage string
	TargetLanguage string
	ProviderID     catalog.EngineID
	Timestamp      time.Time
	IsFavorite     bool
	Tags           []string
	Theme          string
}

// RecordFrom builds a record from a translation result. The result's
// timestamp is carried forward; records never get a save-time timestamp.
// theme is empty unless a non-default theme produced the translation.
func RecordFrom(result *translation.Result, theme string) *Record {
	return &Record{
		OriginalText:   result.OriginalText,
		TranslatedText: result.TranslatedText,
		SourceLanguage: result.SourceLanguage,
		TargetLanguage: result.TargetLanguage,
		ProviderID:     result.ProviderID,
		Timestamp:      result.Timestamp,
		Tags:           []string{},
		Theme:          theme,
	}
}

// HasTag reports whether the record carries the given tag.
func (r *Record) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
