package submission

import (
	"errors"
	"regexp"
)

// ErrInvalidVideoURL is returned for URLs that match none of the accepted
// TikTok link forms.
var ErrInvalidVideoURL = errors.New("invalid video URL: must be a TikTok video link")

// Accepted TikTok URL forms: canonical video links, vm.tiktok.com share
// tokens, and tiktok.com/t/ share tokens.
var videoURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://(www\.)?tiktok\.com/@[\w.-]+/video/\d+`),
	regexp.MustCompile(`^https?://vm\.tiktok\.com/[\w-]+`),
	regexp.MustCompile(`^https?://(www\.)?tiktok\.com/t/[\w-]+`),
}

// ValidateVideoURL checks a submitted video URL against the accepted TikTok
// link forms. Validation happens before any database work so malformed links
// never reach a campaign.
func ValidateVideoURL(url string) error {
	for _, p := range videoURLPatterns {
		if p.MatchString(url) {
			return nil
		}
	}
	return ErrInvalidVideoURL
}
