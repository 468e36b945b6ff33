package cli

import "github.com/shirou/gopsutil/v3/disk"

// filesystemUsage returns the usage of the filesystem holding path, or nil if
// it cannot be determined.
func filesystemUsage(path string) *disk.UsageStat {
	usage, err := disk.Usage(path)
	if err != nil {
		return nil
	}

	return usage
}
