package output

import (
	"os"
	"sort"
	"strconv"
	"strings"
)

// logExtension is the suffix shared by the active file and all backups.
const logExtension = ".log"

// activeFileName returns the name of the active log file for a base name.
func activeFileName(baseName string) string {
	return baseName + logExtension
}

// backupFileName returns the name of the backup with the given suffix.
// Suffix 1 is the most recently rotated file.
func backupFileName(baseName string, suffix int) string {
	return baseName + "." + strconv.Itoa(suffix) + logExtension
}

// shouldRotate reports whether the next write must rotate first.
// The size cap is a soft trigger checked before the write: a single
// line larger than maxSize is still written in full afterwards.
func shouldRotate(currentSize, lineSize, maxSize int64) bool {
	return currentSize+lineSize > maxSize
}

// renameOp is a single source-to-destination rename in a rotation plan.
type renameOp struct {
	src string
	dst string
}

// rotationPlan describes the file operations of one rotation. Removals
// are executed first, then the renames in order. The final rename moves
// the active file to suffix 1.
type rotationPlan struct {
	removals []string
	renames  []renameOp
}

// planRotation computes the rename chain for the next rotation given
// the backup suffixes that currently exist on disk.
//
// Suffixes at or above maxFiles are deleted up front; the remaining
// backups are renamed from the highest suffix downward so that no
// rename overwrites a file that has not been moved yet. With
// maxFiles=3 and backups 1,2,3 present this yields: remove 3, rename
// 2->3, rename 1->2, rename active->1.
func planRotation(baseName string, existing []int, maxFiles int) rotationPlan {
	var plan rotationPlan

	keep := make([]int, 0, len(existing))

	for _, suffix := range existing {
		if suffix >= maxFiles {
			plan.removals = append(plan.removals, backupFileName(baseName, suffix))

			continue
		}

		keep = append(keep, suffix)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(keep)))

	for _, suffix := range keep {
		plan.renames = append(plan.renames, renameOp{
			src: backupFileName(baseName, suffix),
			dst: backupFileName(baseName, suffix+1),
		})
	}

	plan.renames = append(plan.renames, renameOp{
		src: activeFileName(baseName),
		dst: backupFileName(baseName, 1),
	})

	return plan
}

// scanBackups lists the backup suffixes present for baseName in dir,
// in no particular order. Unparseable neighbours are ignored.
func scanBackups(dir, baseName string) ([]int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	prefix := baseName + "."

	var suffixes []int

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, logExtension) {
			continue
		}

		middle := strings.TrimSuffix(strings.TrimPrefix(name, prefix), logExtension)

		suffix, err := strconv.Atoi(middle)
		if err != nil || suffix < 1 {
			continue
		}

		suffixes = append(suffixes, suffix)
	}

	return suffixes, nil
}
