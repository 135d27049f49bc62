/*
Copyright © 2019 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package abslookuputil

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/cenkalti/backoff"
	"github.com/google/go-cloud/blob"
	"github.com/google/go-cloud/blob/fileblob"
	"github.com/google/go-cloud/blob/gcsblob"
	"github.com/google/go-cloud/blob/s3blob"
	"github.com/google/go-cloud/gcp"
	"github.com/sirupsen/logrus"
)

// maxDownloadTime is the longest time that will be spent retrying a download.
var maxDownloadTime = 2 * time.Minute

// maybeDownload checks if the input is an existing file locally.
// If not, it checks if the file is a URL or a blob.
// If it is, it downloads the file and
// returns the path to the downloaded file.
// Otherwise the path is returned unchanged.
func maybeDownload(ctx context.Context, path string, log logrus.FieldLogger) (string, error) {
	// Check if local file exists. If it does, return the given path.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return path, nil
	}

	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return downloadHTTP(ctx, path, log)
	}
	if IsBlob(path) {
		return downloadBlob(ctx, path, log)
	}
	return path, nil
}

// downloadHTTP downloads a file from the specified URL and returns
// the path to the downloaded file. Failed requests are retried
// with exponential backoff.
func downloadHTTP(ctx context.Context, url string, log logrus.FieldLogger) (string, error) {
	// Prepare a temporary directory for the downloads.
	dir, err := ioutil.TempDir("", "abslookup")
	if err != nil {
		return "", fmt.Errorf("abslookuputil: failed creating temporary download directory: %v", err)
	}
	fname := filepath.Join(dir, path.Base(url))

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxDownloadTime
	err = backoff.RetryNotify(
		func() error {
			return downloadFile(ctx, url, fname)
		},
		backoff.WithContext(b, ctx),
		func(err error, d time.Duration) {
			log.WithField("url", url).Warnf("%v: retrying in %v", err, d)
		},
	)
	if err != nil {
		return "", fmt.Errorf("abslookuputil: downloading %s: %v", url, err)
	}
	log.WithFields(logrus.Fields{"url": url, "file": fname}).Info("downloaded file")
	return fname, nil
}

// downloadFile performs a single download attempt of url into fname.
// Client errors are not retried.
func downloadFile(ctx context.Context, url, fname string) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return backoff.Permanent(err)
	}
	resp, err := http.DefaultClient.Do(req.WithContext(ctx))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return backoff.Permanent(fmt.Errorf("unexpected response status: %s", resp.Status))
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected response status: %s", resp.Status)
	}
	w, err := os.Create(fname)
	if err != nil {
		return backoff.Permanent(err)
	}
	if _, err = io.Copy(w, resp.Body); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// IsBlob returns whether the given filename represents a blob.
// (i.e., if it starts with `gs://`, 's3://', or 'file://').
func IsBlob(path string) bool {
	return strings.HasPrefix(path, "gs://") || strings.HasPrefix(path, "s3://") || strings.HasPrefix(path, "file://")
}

// OpenBucket returns the blob storage bucket specified by bucketName,
// where bucketName must be in the format 'provider://name' where provider
// is the name of the storage provider and name is the name of the bucket.
// The currently accepted storage providers are "file" for a directory
// relative to the working directory (e.g., for testing), "gs" for Google
// Cloud Storage, and "s3" for AWS S3.
func OpenBucket(ctx context.Context, bucketName string) (*blob.Bucket, error) {
	u, err := url.Parse(bucketName)
	if err != nil {
		return nil, fmt.Errorf("abslookuputil: opening bucket: %v", err)
	}
	switch u.Scheme {
	case "file":
		return fileblob.NewBucket(u.Hostname())
	case "gs":
		return gsBucket(ctx, u.Hostname())
	case "s3":
		return s3Bucket(ctx, u.Hostname())
	default:
		return nil, fmt.Errorf("abslookuputil: invalid blob storage provider %q", u.Scheme)
	}
}

func gsBucket(ctx context.Context, name string) (*blob.Bucket, error) {
	// See here for information on credentials:
	// https://cloud.google.com/docs/authentication/getting-started
	creds, err := gcp.DefaultCredentials(ctx)
	if err != nil {
		return nil, err
	}
	c, err := gcp.NewHTTPClient(gcp.DefaultTransport(), gcp.CredentialsTokenSource(creds))
	if err != nil {
		return nil, err
	}
	return gcsblob.OpenBucket(ctx, name, c)
}

// s3Bucket opens an s3 storage bucket. It assumes the following
// environment variables are set: AWS_REGION, AWS_ACCESS_KEY_ID, and
// AWS_SECRET_ACCESS_KEY.
func s3Bucket(ctx context.Context, name string) (*blob.Bucket, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-2"
	}
	c := &aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewEnvCredentials(),
	}
	s, err := session.NewSession(c)
	if err != nil {
		return nil, err
	}
	return s3blob.OpenBucket(ctx, s, name)
}

// downloadBlob downloads the specified file from blob storage and returns
// the path to the downloaded file.
func downloadBlob(ctx context.Context, path string, log logrus.FieldLogger) (string, error) {
	u, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("abslookuputil: downloading %s: %v", path, err)
	}
	bucket, err := OpenBucket(ctx, u.Scheme+"://"+u.Host)
	if err != nil {
		return "", fmt.Errorf("abslookuputil: downloading %s: %v", path, err)
	}
	dir, err := ioutil.TempDir("", "abslookup")
	if err != nil {
		return "", fmt.Errorf("abslookuputil: failed creating temporary download directory: %v", err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	fname := filepath.Join(dir, filepath.Base(key))

	r, err := bucket.NewReader(ctx, key)
	if err != nil {
		return "", fmt.Errorf("abslookuputil: downloading %s: %v", path, err)
	}
	defer r.Close()
	w, err := os.Create(fname)
	if err != nil {
		return "", fmt.Errorf("abslookuputil: downloading %s: %v", path, err)
	}
	if _, err = io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("abslookuputil: downloading %s: %v", path, err)
	}
	if err = w.Close(); err != nil {
		return "", fmt.Errorf("abslookuputil: downloading %s: %v", path, err)
	}
	log.WithFields(logrus.Fields{"blob": path, "file": fname}).Info("downloaded file")
	return fname, nil
}
