package i18n

import "github.com/dskvich/image-telegram-bot/pkg/domain"

type Key string

const (
	Welcome       Key = "welcome"
	Help          Key = "help_msg"
	Cancelled     Key = "cancel_msg"
	NotAuthorized Key = "not_authorized"

	CommandStart    Key = "cmd_start"
	CommandHelp     Key = "cmd_help"
	CommandCancel   Key = "cmd_cancel"
	CommandLanguage Key = "cmd_language"

	ButtonMenu           Key = "btn_menu"
	ButtonLanguage       Key = "btn_language"
	ButtonAdmin          Key = "btn_admin"
	ButtonSearchOn       Key = "btn_search_on"
	ButtonSearchOff      Key = "btn_search_off"
	ButtonEnhance        Key = "btn_enhance"
	ButtonGenerate       Key = "btn_generate"
	ButtonDonePhotosNeed Key = "btn_done_photos_need"
	ButtonDonePhotosOK   Key = "btn_done_photos_ok"

	LabelSearch Key = "label_search"

	ChooseRatio   Key = "choose_ratio"
	QualityHeader Key = "quality_header"
	SearchHeader  Key = "search_header"

	PhotoUploaded  Key = "photo_uploaded"
	PhotosUploaded Key = "photos_uploaded"
	PhotoCountMax  Key = "photo_count_max"
	PhotoCountNeed Key = "photo_count_need"
	PhotoCountOK   Key = "photo_count_ok"
	NeedMorePhotos Key = "need_more_photos"

	PromptConfirm   Key = "prompt_confirm"
	EnhancedPrompt  Key = "enhanced_prompt"
	EnhancingPrompt Key = "enhancing_prompt"
	ErrorPrefix     Key = "error_prefix"

	VoiceRecognizing       Key = "voice_recognizing"
	VoiceError             Key = "voice_error"
	VoiceDisabled          Key = "voice_disabled"
	ExpectedText           Key = "expected_text"
	PhotoAlreadyLoaded     Key = "photo_already_loaded"
	ExpectedPhoto          Key = "expected_photo"
	ExpectedPhotoNotVoice  Key = "expected_photo_not_voice"
	ExpectedImagesNotText  Key = "expected_images_not_text"
	ExpectedImagesNotVoice Key = "expected_images_not_voice"

	StartGenerating   Key = "start_generating"
	StatusGenerating  Key = "status_generating"
	StatusDone        Key = "status_done"
	Done              Key = "msg_done"
	WhatNext          Key = "msg_what_next"
	FileCaptionSuffix Key = "file_caption_suffix"
	LimitExceeded     Key = "limit_exceeded"
	GenerationError   Key = "generation_error"
	Blocked           Key = "blocked"

	LanguageChanged Key = "lang_changed"
	SelectLanguage  Key = "select_lang"

	AdminPanel   Key = "admin_panel"
	AdminBalance Key = "admin_balance"
	AdminWeb     Key = "admin_web"
)

func ModeButton(m domain.Mode) Key  { return Key("btn_" + string(m)) }
func ModeLabel(m domain.Mode) Key   { return Key("label_" + string(m)) }
func ModeDetails(m domain.Mode) Key { return Key("details_" + string(m)) }
func PromptHint(m domain.Mode) Key  { return Key("prompt_" + string(m)) }
func Ratio(r string) Key            { return Key("ratio_" + r) }

// Keys lists every key each locale must define.
func Keys() []Key {
	keys := []Key{
		Welcome, Help, Cancelled, NotAuthorized,
		CommandStart, CommandHelp, CommandCancel, CommandLanguage,
		ButtonMenu, ButtonLanguage, ButtonAdmin, ButtonSearchOn, ButtonSearchOff,
		ButtonEnhance, ButtonGenerate, ButtonDonePhotosNeed, ButtonDonePhotosOK,
		LabelSearch, ChooseRatio, QualityHeader, SearchHeader,
		PhotoUploaded, PhotosUploaded, PhotoCountMax, PhotoCountNeed, PhotoCountOK, NeedMorePhotos,
		PromptConfirm, EnhancedPrompt, EnhancingPrompt, ErrorPrefix,
		VoiceRecognizing, VoiceError, VoiceDisabled, ExpectedText, PhotoAlreadyLoaded,
		ExpectedPhoto, ExpectedPhotoNotVoice, ExpectedImagesNotText, ExpectedImagesNotVoice,
		StartGenerating, StatusGenerating, StatusDone, Done, WhatNext, FileCaptionSuffix,
		LimitExceeded, GenerationError, Blocked,
		LanguageChanged, SelectLanguage,
		AdminPanel, AdminBalance, AdminWeb,
	}
	for _, m := range domain.Modes {
		keys = append(keys, ModeButton(m), ModeLabel(m), ModeDetails(m), PromptHint(m))
	}
	for _, r := range domain.AspectRatios {
		keys = append(keys, Ratio(r))
	}
	return keys
}
