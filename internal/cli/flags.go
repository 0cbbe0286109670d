package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile     string
	Engine      string
	From        string
	To          string
	Theme       string
	ImagePath   string
	BatchFile   string
	Interactive bool
	RelayURL    string
	ListModels  bool
	NoHistory   bool

	// History browsing flags
	ShowHistory    bool
	HistoryLimit   int
	SearchQuery    string
	ShowFavorites  bool
	FavoriteID     int64
	DeleteID       int64
	TagSpec        string
	ClearHistory   bool
	ArchiveHistory bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Engine:       "gemini",
		From:         "auto",
		To:           "zh_CN",
		Theme:        "daily",
		HistoryLimit: 20,
	}
}
