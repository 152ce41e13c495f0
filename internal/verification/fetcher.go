package verification

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"
)

// metaDescriptionRe extracts the og:description tag, which both platforms
// populate with the account bio on public profile pages
var metaDescriptionRe = regexp.MustCompile(`<meta[^>]+(?:property="og:description"|name="description")[^>]+content="([^"]*)"`)

// HTTPBioFetcher fetches public profile pages and extracts the bio text
type HTTPBioFetcher struct {
	httpClient *http.Client
	userAgent  string
}

// NewHTTPBioFetcher creates a bio fetcher with a bounded request timeout
func NewHTTPBioFetcher() *HTTPBioFetcher {
	return &HTTPBioFetcher{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		userAgent: "Mozilla/5.0 (compatible; ClippinVerifier/1.0)",
	}
}

// FetchBio fetches the public profile page for the account and returns the
// bio text found in its meta description
func (f *HTTPBioFetcher) FetchBio(ctx context.Context, platform Platform, username string) (string, error) {
	var profileURL string
	switch platform {
	case PlatformTikTok:
		profileURL = fmt.Sprintf("https://www.tiktok.com/@%s", username)
	case PlatformInstagram:
		profileURL = fmt.Sprintf("https://www.instagram.com/%s/", username)
	default:
		return "", ErrInvalidPlatform
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch profile page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("profile page returned status %d", resp.StatusCode)
	}

	// Bio lives in the document head; a bounded read is enough
	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return "", fmt.Errorf("failed to read profile page: %w", err)
	}

	match := metaDescriptionRe.FindSubmatch(body)
	if match == nil {
		return "", fmt.Errorf("no bio found on profile page")
	}
	return string(match[1]), nil
}
