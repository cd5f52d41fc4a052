package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// AppInfo is the subset of a webOS appinfo.json used by the build.
type AppInfo struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Icon             string `json:"icon"`
	LargeIcon        string `json:"largeIcon"`
	SplashBackground string `json:"splashBackground"`
	BgImage          string `json:"bgImage"`
}

// Assets returns the relative asset paths referenced by the appinfo.
func (a AppInfo) Assets() []string {
	var assets []string
	for _, p := range []string{a.Icon, a.LargeIcon, a.SplashBackground, a.BgImage} {
		if p != "" {
			assets = append(assets, p)
		}
	}
	return assets
}

// AppInfoPaths lists the appinfo.json locations checked in dir, in priority order.
func AppInfoPaths(dir string) []string {
	return []string{
		filepath.Join(dir, "appinfo.json"),
		filepath.Join(dir, "webos-meta", "appinfo.json"),
	}
}

// ReadAppInfo parses an appinfo.json file, which may contain comments.
func ReadAppInfo(path string) (AppInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AppInfo{}, err
	}

	var info AppInfo
	if err := json.Unmarshal(jsonc.ToJSON(data), &info); err != nil {
		return AppInfo{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return info, nil
}
