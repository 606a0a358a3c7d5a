// Package plan computes the sync plan for a deployment: which local files to
// upload and which remote keys to delete.
//
// Planning is a pure set computation with no I/O, so it can be exercised
// without any remote service.
package plan

import (
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/liambarstad/Bird-Watchers-Emporium-App/types"
)

// Build diffs local files against a snapshot of remote keys.
//
// Every local file is uploaded, including keys already present remotely, so
// content changes propagate even when a key is unchanged. Only remote keys
// with no local counterpart are deleted. Duplicate local keys keep their first
// occurrence. Both result slices are sorted by key.
func Build(local []types.DeployableFile, remote []string, bucket string, now time.Time) *types.SyncPlan {
	localKeys := mapset.NewThreadUnsafeSetWithSize[string](len(local))
	upload := make([]types.DeployableFile, 0, len(local))
	for _, f := range local {
		if !localKeys.Add(f.Key) {
			continue
		}
		upload = append(upload, f)
	}
	sort.Slice(upload, func(i, j int) bool { return upload[i].Key < upload[j].Key })

	remoteKeys := mapset.NewThreadUnsafeSet[string](remote...)
	stale := remoteKeys.Difference(localKeys).ToSlice()
	sort.Strings(stale)

	return &types.SyncPlan{
		Bucket:    bucket,
		ToUpload:  upload,
		ToDelete:  stale,
		CreatedAt: now,
	}
}

// Summary counts the actions in a plan.
type Summary struct {
	Uploads     int   `json:"uploads" yaml:"uploads"`
	Deletes     int   `json:"deletes" yaml:"deletes"`
	UploadBytes int64 `json:"upload_bytes" yaml:"upload_bytes"`
}

// Summarize returns action counts for p. A nil plan has no actions.
func Summarize(p *types.SyncPlan) Summary {
	if p == nil {
		return Summary{}
	}
	return Summary{
		Uploads:     len(p.ToUpload),
		Deletes:     len(p.ToDelete),
		UploadBytes: p.UploadBytes(),
	}
}
