package submission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateVideoURL(t *testing.T) {
	valid := []string{
		"https://www.tiktok.com/@alice/video/1234567890",
		"https://tiktok.com/@bob.smith/video/7301234567890123456",
		"http://www.tiktok.com/@under_score/video/42",
		"https://vm.tiktok.com/ZM6abc",
		"https://vm.tiktok.com/ZM6abc-def",
		"https://www.tiktok.com/t/ZTRabc123",
		"https://tiktok.com/t/ZTRabc123",
	}
	for _, url := range valid {
		assert.NoError(t, ValidateVideoURL(url), url)
	}

	invalid := []string{
		"",
		"not a url",
		"https://instagram.com/p/xyz",
		"https://youtube.com/watch?v=abc",
		"https://www.tiktok.com/@alice",
		"https://www.tiktok.com/@alice/video/",
		"https://www.tiktok.com/@alice/video/notdigits",
		"ftp://www.tiktok.com/@alice/video/123",
	}
	for _, url := range invalid {
		assert.ErrorIs(t, ValidateVideoURL(url), ErrInvalidVideoURL, url)
	}
}
