package handlers

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/blockchaincyberpunk1/shelflife-backend/internal/models"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	imagePathSuffix = regexp.MustCompile(`(?i)\.(jpe?g|png|gif|webp)$`)
)

// normalizeEmail trims and lowercases an email address before any lookup or
// storage.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func isValidUsername(username string) bool {
	return len(username) >= 3 && len(username) <= 20
}

func isValidPassword(password string) bool {
	return len(password) >= 6
}

func isValidShelfName(name string) bool {
	return len(name) >= 2 && len(name) <= 50
}

func isValidURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

func isValidImageURL(raw string) bool {
	if !isValidURL(raw) {
		return false
	}
	parsed, _ := url.Parse(raw)
	return imagePathSuffix.MatchString(parsed.Path)
}

func isValidStatus(status string) bool {
	for _, s := range models.ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func isValidEmailPreference(pref string) bool {
	return pref == models.EmailPreferenceDaily ||
		pref == models.EmailPreferenceWeekly ||
		pref == models.EmailPreferenceMonthly
}

// isValidISBN accepts ISBN-10 and ISBN-13, with or without separators,
// checking the respective check digit.
func isValidISBN(raw string) bool {
	cleaned := strings.NewReplacer("-", "", " ", "").Replace(raw)
	switch len(cleaned) {
	case 10:
		return isValidISBN10(cleaned)
	case 13:
		return isValidISBN13(cleaned)
	default:
		return false
	}
}

func isValidISBN10(isbn string) bool {
	sum := 0
	for i := 0; i < 10; i++ {
		ch := isbn[i]
		var value int
		switch {
		case ch >= '0' && ch <= '9':
			value = int(ch - '0')
		case (ch == 'X' || ch == 'x') && i == 9:
			value = 10
		default:
			return false
		}
		sum += value * (10 - i)
	}
	return sum%11 == 0
}

func isValidISBN13(isbn string) bool {
	sum := 0
	for i := 0; i < 13; i++ {
		ch := isbn[i]
		if ch < '0' || ch > '9' {
			return false
		}
		value := int(ch - '0')
		if i%2 == 1 {
			value *= 3
		}
		sum += value
	}
	return sum%10 == 0
}

// hasDuplicateIDs reports whether a book-id list names the same book twice;
// a shelf may never hold duplicate references.
func hasDuplicateIDs(ids []int) bool {
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}
