package preflight

import (
	"fmt"

	"golang.org/x/sys/unix"

	"examscribe/internal/config"
	"examscribe/internal/deps"
)

// minFreeBytes is the working-space floor for extracted audio segments.
const minFreeBytes = 1 << 30 // 1 GiB

// Result reports one preflight check outcome.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Run evaluates every check a transcription run depends on.
func Run(cfg *config.Config) []Result {
	results := make([]Result, 0, 5)
	results = append(results, CheckBinaries()...)
	results = append(results, CheckWorkDir(cfg.Paths.WorkDir))
	results = append(results, CheckDiskSpace(cfg.Paths.WorkDir))
	results = append(results, CheckAPIKey(cfg.Transcription.APIKey))
	return results
}

// Passed reports whether every result succeeded.
func Passed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}

// CheckBinaries verifies ffmpeg and ffprobe are on PATH.
func CheckBinaries() []Result {
	statuses := deps.CheckBinaries(deps.Required())
	results := make([]Result, 0, len(statuses))
	for _, status := range statuses {
		results = append(results, Result{
			Name:   status.Name,
			Passed: status.Available,
			Detail: status.Detail,
		})
	}
	return results
}

// CheckWorkDir verifies the scratch directory is usable.
func CheckWorkDir(path string) Result {
	const name = "work directory"
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s: %v", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckDiskSpace verifies the work filesystem has room for extracted audio.
func CheckDiskSpace(path string) Result {
	const name = "disk space"
	if path == "" {
		return Result{Name: name, Detail: "work directory not configured"}
	}
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("statfs %s: %v", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < minFreeBytes {
		return Result{Name: name, Detail: fmt.Sprintf("only %d MiB free under %s", free>>20, path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d GiB free", free>>30)}
}

// CheckAPIKey verifies transcription credentials are configured.
func CheckAPIKey(key string) Result {
	const name = "transcription credentials"
	if key == "" {
		return Result{Name: name, Detail: "set transcription.api_key or OPENAI_API_KEY"}
	}
	return Result{Name: name, Passed: true, Detail: "api key configured"}
}
