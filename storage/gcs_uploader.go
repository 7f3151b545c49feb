package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	gcs "cloud.google.com/go/storage"
)

// UploadFile uploads a local file to a GCS bucket under the given object name
// and returns its gs:// URI. It relies on Application Default Credentials.
func UploadFile(ctx context.Context, bucketName, objectName, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open file %q: %w", filePath, err)
	}
	defer f.Close()

	client, err := gcs.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	w.ContentType = "text/csv"

	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("copy file to GCS writer: %w", err)
	}

	// Close finalizes the upload
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}

	return fmt.Sprintf("gs://%s/%s", bucketName, objectName), nil
}

// DatasetObjectName places a run's CSV under prefix/runID/
func DatasetObjectName(prefix, runID, filePath string) string {
	return path.Join(prefix, runID, path.Base(filePath))
}
