package translation

import (
	"time"

	"github.com/thisisbailin/spur/internal/catalog"
)

// Result is the canonical outcome of one successful translation call. It is
// immutable and stamped at orchestration time; history records created from
// it must carry this timestamp forward.
type Result struct {
	OriginalText   string
	TranslatedText string
	SourceLanguage string
	TargetLanguage string
	ProviderID     catalog.EngineID
	Timestamp      time.Time
}

func newResult(original, translated, from, to string, provider catalog.EngineID) *Result {
	return &Result{
		OriginalText:   original,
		TranslatedText: translated,
		SourceLanguage: from,
		TargetLanguage: to,
		ProviderID:     provider,
		Timestamp:      time.Now(),
	}
}
