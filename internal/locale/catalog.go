// Package locale holds the fixed user-facing strings of the chat client.
package locale

import (
	"golang.org/x/text/language"
)

// Catalog is the set of fixed strings shown to the user.
type Catalog struct {
	Greeting         string
	Fallback         string
	ValidatingKey    string
	KeyAccepted      string
	KeyRejected      string
	KeySaveFailed    string
	KeyDialogTitle   string
	KeyDialogHelp    string
	KeyPlaceholder   string
	KeySubmit        string
	KeySubmitting    string
	InputPlaceholder string
	ModelPlaceholder string
	ModelNoResults   string
	Thinking         string
}

var vietnamese = Catalog{
	Greeting:         "Xin chào! Tôi có thể giúp gì cho bạn?",
	Fallback:         "Rất tiếc, tôi đã gặp lỗi khi xử lý yêu cầu của bạn.",
	ValidatingKey:    "Đang kết nối API Key",
	KeyAccepted:      "API Key của bạn đã được xác thực.",
	KeyRejected:      "API Key được cung cấp không hợp lệ. Vui lòng thử lại.",
	KeySaveFailed:    "Không thể lưu API Key.",
	KeyDialogTitle:   "Gemini API Key",
	KeyDialogHelp:    "Hãy nhập Gemini API Key để sử dụng chức năng trò chuyện AI. Truy cập https://aistudio.google.com/app/apikey để lấy API Key.",
	KeyPlaceholder:   "Nhập API Key của bạn.",
	KeySubmit:        "Lưu API Key",
	KeySubmitting:    "Đang xác minh...",
	InputPlaceholder: "Bạn có câu hỏi nào không?",
	ModelPlaceholder: "Chọn một mô hình AI...",
	ModelNoResults:   "Không có kết quả.",
	Thinking:         "Đang suy nghĩ",
}

var english = Catalog{
	Greeting:         "Hello! How can I help you?",
	Fallback:         "Sorry, I ran into an error while processing your request.",
	ValidatingKey:    "Connecting API key",
	KeyAccepted:      "Your API key has been verified.",
	KeyRejected:      "The API key provided is invalid. Please try again.",
	KeySaveFailed:    "Could not save the API key.",
	KeyDialogTitle:   "Gemini API Key",
	KeyDialogHelp:    "Enter a Gemini API key to use the AI chat. Get one at https://aistudio.google.com/app/apikey.",
	KeyPlaceholder:   "Enter your API key.",
	KeySubmit:        "Save API key",
	KeySubmitting:    "Verifying...",
	InputPlaceholder: "Any questions?",
	ModelPlaceholder: "Pick an AI model...",
	ModelNoResults:   "No results.",
	Thinking:         "Thinking",
}

// Vietnamese is listed first so it wins when nothing matches.
var (
	supported = []language.Tag{language.Vietnamese, language.English}
	catalogs  = []Catalog{vietnamese, english}
	matcher   = language.NewMatcher(supported)
)

// For returns the catalog best matching the BCP 47 tag. Unparsable or
// empty tags get the default catalog.
func For(tag string) Catalog {
	if tag == "" {
		return catalogs[0]
	}
	t, err := language.Parse(tag)
	if err != nil {
		return catalogs[0]
	}
	_, idx, conf := matcher.Match(t)
	if conf == language.No {
		return catalogs[0]
	}
	return catalogs[idx]
}

// Default returns the catalog used when no locale is configured.
func Default() Catalog {
	return catalogs[0]
}
