package update

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/mod/semver"
)

const latestReleaseURL = "https://api.github.com/repos/dribbe/glucomon/releases/latest"

type Release struct {
	HTMLURL     string    `json:"html_url"`
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	Draft       bool      `json:"draft"`
	Prerelease  bool      `json:"prerelease"`
	PublishedAt time.Time `json:"published_at"`
	Body        string    `json:"body"`
}

// IsLatest compares the running version against the newest GitHub
// release. Network trouble counts as up to date, the check is advisory.
func IsLatest(version string) (bool, string) {
	rel, err := latestRelease()
	if err != nil {
		log.Println("update check:", err)
		return true, ""
	}
	if rel.Draft || rel.Prerelease {
		return true, ""
	}
	if semver.Compare(version, rel.TagName) < 0 {
		return false, rel.TagName
	}
	return true, rel.TagName
}

func latestRelease() (*Release, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(latestReleaseURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var rel Release
	if err := json.Unmarshal(body, &rel); err != nil {
		return nil, err
	}
	return &rel, nil
}
