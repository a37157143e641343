package errors

import "github.com/louisbranch/demobank/internal/platform/errors/i18n"

// DefaultLocale is the default locale for user-facing messages.
const DefaultLocale = "en-US"

// UserMessage renders the user-facing message for err in the given locale.
// Unknown errors render a generic message so internal details never leak.
func UserMessage(err error, locale string) string {
	if err == nil {
		return ""
	}
	if locale == "" {
		locale = DefaultLocale
	}
	code := GetCode(err)
	if code == CodeUnknown {
		return i18n.GetCatalog(locale).Format(string(CodeUnknown), nil)
	}
	return i18n.GetCatalog(locale).Format(string(code), GetMetadata(err))
}
