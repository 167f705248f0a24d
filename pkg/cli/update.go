package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
	"github.com/spf13/cobra"
)

// Version is the running release, set with -ldflags "-X ...cli.Version=x.y.z".
var Version = "0.1.0"

const updateRepo = "Fepozopo/artwall"

var goos, goarch = runtime.GOOS, runtime.GOARCH

// releasesURL is a variable so tests can point it at a local server.
var releasesURL = "https://api.github.com/repos/" + updateRepo + "/releases"

var semverRe = regexp.MustCompile(`v?\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?`)

type githubRelease struct {
	TagName    string `json:"tag_name"`
	Name       string `json:"name"`
	Draft      bool   `json:"draft"`
	Prerelease bool   `json:"prerelease"`
	Assets     []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

// latestRelease asks the GitHub releases API for the highest published semver
// release. Tags only need to contain a version, so "artwall-v1.2.3" works.
// A nil release with a nil error means there is nothing to install.
func latestRelease(client *http.Client) (*selfupdate.Release, error) {
	resp, err := client.Get(releasesURL)
	if err != nil {
		return nil, fmt.Errorf("github API request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading github response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var releases []githubRelease
	if err := json.Unmarshal(body, &releases); err != nil {
		return nil, fmt.Errorf("failed to decode github releases: %w", err)
	}

	var found []*selfupdate.Release
	for _, r := range releases {
		if r.Draft || r.Prerelease {
			continue
		}
		v, ok := parseReleaseVersion(r.TagName)
		if !ok {
			if v, ok = parseReleaseVersion(r.Name); !ok {
				continue
			}
		}
		found = append(found, &selfupdate.Release{
			Version:  v,
			AssetURL: pickAsset(r),
		})
	}
	if len(found) == 0 {
		return nil, nil
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Version.GT(found[j].Version) })
	return found[0], nil
}

func parseReleaseVersion(s string) (semver.Version, bool) {
	match := semverRe.FindString(s)
	if match == "" {
		return semver.Version{}, false
	}
	v, err := semver.Parse(strings.TrimPrefix(match, "v"))
	return v, err == nil
}

// pickAsset prefers the archive built for this platform, then any binary
// looking asset, then the first one.
func pickAsset(r githubRelease) string {
	platform := strings.ToLower(goos + "_" + goarch)
	first, binary := "", ""
	for _, a := range r.Assets {
		name := strings.ToLower(a.Name)
		if strings.Contains(name, platform) {
			return a.BrowserDownloadURL
		}
		if first == "" {
			first = a.BrowserDownloadURL
		}
		if binary == "" {
			for _, hint := range []string{"darwin", "linux", "windows", "amd64", "arm64"} {
				if strings.Contains(name, hint) {
					binary = a.BrowserDownloadURL
					break
				}
			}
		}
	}
	if binary != "" {
		return binary
	}
	return first
}

// checkForUpdates reports the latest release and installs it over the running
// executable when the user confirms (or yes is set).
func checkForUpdates(out io.Writer, in io.Reader, yes bool) error {
	fmt.Fprintf(out, "Current version: %s\n", Version)
	latest, err := latestRelease(&http.Client{Timeout: 10 * time.Second})
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	if latest == nil {
		fmt.Fprintf(out, "No releases found for %s.\n", updateRepo)
		return nil
	}
	fmt.Fprintf(out, "Latest version: %s\n", latest.Version)

	current, err := semver.Parse(strings.TrimPrefix(Version, "v"))
	if err != nil {
		fmt.Fprintf(out, "warning: could not parse current version %q: %v\n", Version, err)
	} else if latest.Version.LTE(current) {
		fmt.Fprintf(out, "You are already running the latest version: %s.\n", current)
		return nil
	}
	if latest.AssetURL == "" {
		fmt.Fprintf(out, "A new version (%s) is available but there is no downloadable asset.\n", latest.Version)
		return nil
	}
	if !yes {
		fmt.Fprintf(out, "A new version (%s) is available. Update now? (y/N): ", latest.Version)
		answer, _ := bufio.NewReader(in).ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(out, "Update cancelled.")
			return nil
		}
	}
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}
	fmt.Fprintln(out, "Updating...")
	if err := selfupdate.UpdateTo(latest.AssetURL, exe); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	fmt.Fprintf(out, "Updated to version %s.\n", latest.Version)
	return nil
}

func (a *app) updateCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "update",
		Short: "install the latest release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func() error {
				return checkForUpdates(a.out, cmd.InOrStdin(), yes)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, `yes`, `y`, false, `update without asking`)
	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the artwall version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.out, "artwall %s (%s/%s)\n", Version, goos, goarch)
		},
	}
}
