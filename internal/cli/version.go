package cli

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/pastesearch/internal/buildinfo"
	"github.com/aidanlsb/pastesearch/internal/commands"
	"github.com/aidanlsb/pastesearch/internal/config"
	"github.com/aidanlsb/pastesearch/internal/matchstore"
	"github.com/aidanlsb/pastesearch/internal/model"
)

const defaultModulePath = "github.com/aidanlsb/pastesearch"

type versionInfo struct {
	Version     string         `json:"version"`
	ModulePath  string         `json:"module_path"`
	Commit      string         `json:"commit,omitempty"`
	CommitTime  string         `json:"commit_time,omitempty"`
	Modified    bool           `json:"modified"`
	GoVersion   string         `json:"go_version"`
	Platform    string         `json:"platform"`
	StoreSchema int            `json:"store_schema"`
	Strategies  []strategyInfo `json:"strategies"`
	ConfigPath  string         `json:"config_path"`
	DefaultRoot *rootStatus    `json:"default_root,omitempty"`
}

type strategyInfo struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	BaseScore float64 `json:"base_score"`
}

// rootStatus describes the configured default root and its match store.
type rootStatus struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	StorePath   string `json:"store_path"`
	StoreExists bool   `json:"store_exists"`
}

var readBuildInfo = debug.ReadBuildInfo

var versionCmd = commands.GenerateCobraCommand("version", runVersion)

func runVersion(_ *cobra.Command, _ []string, _ commands.Flags) error {
	info := currentVersionInfo()

	if isJSONOutput() {
		outputSuccess(info, nil)
		return nil
	}

	fmt.Printf("pastesearch %s (%s, %s)\n", info.Version, info.GoVersion, info.Platform)
	if info.Commit != "" {
		dirty := ""
		if info.Modified {
			dirty = ", modified"
		}
		fmt.Printf("commit: %s %s%s\n", info.Commit, info.CommitTime, dirty)
	}
	fmt.Printf("match store schema: v%d\n", info.StoreSchema)

	names := make([]string, len(info.Strategies))
	for i, s := range info.Strategies {
		names[i] = fmt.Sprintf("%s (%g)", s.Name, s.BaseScore)
	}
	fmt.Printf("strategies: %s\n", strings.Join(names, ", "))

	fmt.Printf("config: %s\n", info.ConfigPath)
	if r := info.DefaultRoot; r != nil {
		store := "no matches stored"
		if r.StoreExists {
			store = "matches stored"
		}
		fmt.Printf("default root: %s → %s (%s)\n", r.Name, r.Path, store)
	}
	return nil
}

func currentVersionInfo() versionInfo {
	info := versionInfo{
		Version:     "devel",
		ModulePath:  defaultModulePath,
		GoVersion:   runtime.Version(),
		Platform:    runtime.GOOS + "/" + runtime.GOARCH,
		StoreSchema: matchstore.CurrentVersion,
		ConfigPath:  config.ResolveConfigPath(configPath),
		DefaultRoot: defaultRootStatus(getConfig()),
	}
	for _, id := range model.AllStrategies() {
		info.Strategies = append(info.Strategies, strategyInfo{ID: int(id), Name: id.String(), BaseScore: id.BaseScore()})
	}

	if bi, ok := readBuildInfo(); ok && bi != nil {
		info.applyBuildInfo(bi)
	}
	if info.Version == "devel" && buildinfo.Version != "" {
		info.Version = normalizeVersion(buildinfo.Version)
	}
	if info.Commit == "" {
		info.Commit = buildinfo.Commit
	}
	if info.CommitTime == "" {
		info.CommitTime = buildinfo.Date
	}
	return info
}

func (v *versionInfo) applyBuildInfo(bi *debug.BuildInfo) {
	settings := make(map[string]string, len(bi.Settings))
	for _, s := range bi.Settings {
		settings[s.Key] = s.Value
	}

	if bi.Main.Path != "" {
		v.ModulePath = bi.Main.Path
	}
	v.Version = normalizeVersion(bi.Main.Version)
	if bi.GoVersion != "" {
		v.GoVersion = bi.GoVersion
	}
	if goos, goarch := settings["GOOS"], settings["GOARCH"]; goos != "" && goarch != "" {
		v.Platform = goos + "/" + goarch
	}
	v.Commit = settings["vcs.revision"]
	v.CommitTime = settings["vcs.time"]
	v.Modified = strings.EqualFold(settings["vcs.modified"], "true")
}

func normalizeVersion(version string) string {
	if version == "" || version == "(devel)" {
		return "devel"
	}
	return version
}

// defaultRootStatus reports nil when no usable default root is configured.
func defaultRootStatus(c *config.Config) *rootStatus {
	if c.DefaultRoot == "" {
		return nil
	}
	path, err := c.GetRootPath(c.DefaultRoot)
	if err != nil {
		return nil
	}
	status := &rootStatus{Name: c.DefaultRoot, Path: path, StorePath: matchstore.Path(path)}
	if st, err := os.Stat(status.StorePath); err == nil && st.Mode().IsRegular() {
		status.StoreExists = true
	}
	return status
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
