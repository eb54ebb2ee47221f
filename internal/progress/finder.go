package progress

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// LogFile represents a session log file.
type LogFile struct {
	Path      string
	RunID     string // short run id from the file name, may be empty
	Timestamp time.Time
}

// FindLogs finds log files in logsDir, newest first.
func FindLogs(logsDir string) ([]LogFile, error) {
	entries, err := os.ReadDir(logsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // No logs yet
		}
		return nil, err
	}

	var logs []LogFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		if lf := parseLogFilename(logsDir, entry.Name()); lf != nil {
			logs = append(logs, *lf)
		}
	}

	sort.Slice(logs, func(i, j int) bool {
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})
	return logs, nil
}

// FindLatestLog returns the most recent log file, or nil when there is none.
func FindLatestLog(logsDir string) (*LogFile, error) {
	logs, err := FindLogs(logsDir)
	if err != nil || len(logs) == 0 {
		return nil, err
	}
	return &logs[0], nil
}

// MatchesRun reports whether the file belongs to the run with the given id.
func (lf LogFile) MatchesRun(runID string) bool {
	return lf.RunID != "" && lf.RunID == shortID(runID)
}

// parseLogFilename parses a log filename into a LogFile.
// Expected format: YYYYMMDD-HHMMSS[-<run-id>].log
func parseLogFilename(dir, name string) *LogFile {
	base := strings.TrimSuffix(name, ".log")
	if len(base) < 15 {
		return nil
	}

	t, err := time.ParseInLocation("20060102-150405", base[:15], time.Local)
	if err != nil {
		return nil
	}

	runID := ""
	if len(base) > 16 && base[15] == '-' {
		runID = base[16:]
	}

	return &LogFile{
		Path:      filepath.Join(dir, name),
		RunID:     runID,
		Timestamp: t,
	}
}
