package archive

import (
	"fmt"
	"path"
	"strings"

	"cloud.google.com/go/civil"
)

// Location is a bucket and an object prefix inside it.
type Location struct {
	Bucket string
	Prefix string
}

// ParseURI splits gs://bucket/prefix. The prefix may be empty.
func ParseURI(uri string) (Location, error) {
	if !strings.HasPrefix(uri, "gs://") {
		return Location{}, fmt.Errorf("invalid GCS URI: %s", uri)
	}

	trimmed := strings.TrimPrefix(uri, "gs://")
	bucket, prefix, _ := strings.Cut(trimmed, "/")
	if bucket == "" {
		return Location{}, fmt.Errorf("invalid GCS URI (no bucket): %s", uri)
	}

	return Location{Bucket: bucket, Prefix: strings.Trim(prefix, "/")}, nil
}

// ObjectName is where the snapshot of one run is stored:
// <prefix>/<target-date>/<run-id>.json.
func (l Location) ObjectName(target civil.Date, runID string) string {
	return path.Join(l.Prefix, target.String(), runID+".json")
}

// URI renders an object of this location's bucket as gs://bucket/object.
func (l Location) URI(object string) string {
	return "gs://" + l.Bucket + "/" + object
}
