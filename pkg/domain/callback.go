package domain

const (
	ModeTextToImageCallback  = "txt2img"
	ModeImageToImageCallback = "img2img"
	ModeMultiImageCallback   = "multi"

	RatioCallbackPrefix   = "ratio_"
	QualityCallbackPrefix = "quality_"

	SearchOnCallback   = "search_on"
	SearchOffCallback  = "search_off"
	EnhanceCallback    = "enhance"
	GenerateCallback   = "generate"
	DonePhotosCallback = "done_photos"
	MenuCallback       = "go_menu"

	LanguageCallback          = "btn_language"
	SetLanguageCallbackPrefix = "setlang_"
	AdminCallback             = "admin_stats"
)
