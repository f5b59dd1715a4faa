// Package i18n holds the user-facing notification catalogue.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Supported locales.
const (
	LocaleEnglish = "en"
	LocaleBengali = "bn"
)

// Notification keys.
const (
	AuthEmailInUse         = "auth.email_in_use"
	AuthWeakPassword       = "auth.weak_password"
	AuthInvalidCredentials = "auth.invalid_credentials"
	AuthPopupClosed        = "auth.popup_closed"
	AuthNetworkError       = "auth.network_error"
	AuthUnknown            = "auth.unknown"
	AuthRegistered         = "auth.registered"
	AuthWelcome            = "auth.welcome"
	AuthGoogleWelcome      = "auth.google_welcome"
	AuthLoggedOut          = "auth.logged_out"
	BookingPlaced          = "booking.placed"
	RouteNotFound          = "route.not_found"
)

var entries = map[string][2]string{
	AuthEmailInUse:         {"An account with this email already exists.", "এই ইমেইল দিয়ে ইতিমধ্যে একটি অ্যাকাউন্ট আছে।"},
	AuthWeakPassword:       {"Password is too weak, please choose a stronger one.", "পাসওয়ার্ড খুব দুর্বল, আরও শক্তিশালী পাসওয়ার্ড দিন।"},
	AuthInvalidCredentials: {"Wrong email or password, please try again.", "ইমেইল বা পাসওয়ার্ড ভুল, আবার চেষ্টা করুন।"},
	AuthPopupClosed:        {"Google sign-in was cancelled.", "গুগল সাইন-ইন বাতিল করা হয়েছে।"},
	AuthNetworkError:       {"Network problem, please check your connection and try again.", "নেটওয়ার্ক সমস্যা, সংযোগ পরীক্ষা করে আবার চেষ্টা করুন।"},
	AuthUnknown:            {"Something went wrong, please try again.", "কিছু একটা ভুল হয়েছে, আবার চেষ্টা করুন।"},
	AuthRegistered:         {"Account created successfully!", "অ্যাকাউন্ট সফলভাবে তৈরি হয়েছে!"},
	AuthWelcome:            {"Welcome to GarmentGrid!", "GarmentGrid-এ স্বাগতম!"},
	AuthGoogleWelcome:      {"Signed in with Google successfully!", "গুগল দিয়ে সফলভাবে সাইন-ইন হয়েছে!"},
	AuthLoggedOut:          {"You have been logged out.", "আপনি লগ আউট হয়েছেন।"},
	BookingPlaced:          {"Order placed for %d x %s!", "%[2]s এর %[1]d টি অর্ডার করা হয়েছে!"},
	RouteNotFound:          {"The page you are looking for does not exist.", "আপনি যে পৃষ্ঠাটি খুঁজছেন সেটি নেই।"},
}

var (
	cat     *catalog.Builder
	matcher = language.NewMatcher([]language.Tag{language.English, language.Bengali})
)

func init() {
	cat = catalog.NewBuilder(catalog.Fallback(language.English))
	for key, texts := range entries {
		_ = cat.SetString(language.English, key, texts[0])
		_ = cat.SetString(language.Bengali, key, texts[1])
	}
}

// Normalize maps a locale hint (tag or Accept-Language value) onto a
// supported locale.
func Normalize(hint string) string {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return LocaleEnglish
	}
	tags, _, err := language.ParseAcceptLanguage(hint)
	if err != nil || len(tags) == 0 {
		return LocaleEnglish
	}
	tag, _, _ := matcher.Match(tags...)
	if base, _ := tag.Base(); base.String() == LocaleBengali {
		return LocaleBengali
	}
	return LocaleEnglish
}

// Printer returns a message printer for locale.
func Printer(locale string) *message.Printer {
	tag := language.English
	if Normalize(locale) == LocaleBengali {
		tag = language.Bengali
	}
	return message.NewPrinter(tag, message.Catalog(cat))
}

// T renders key for locale.
func T(locale, key string, args ...any) string {
	return Printer(locale).Sprintf(key, args...)
}
