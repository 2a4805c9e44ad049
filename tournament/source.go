/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tournament

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mikeb26/bracketodds/internal"
)

// maxDocumentSize bounds how much of a remote document is read.
const maxDocumentSize = 8 << 20

// ObjectGetter is the part of *s3.Client used to read s3:// locations.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Sources reads raw documents from local paths, http(s):// URLs and
// s3://bucket/key locations.
type Sources struct {
	// HTTP is used for http and https locations; http.DefaultClient if nil.
	HTTP *http.Client
	// S3 is used for s3 locations; created from the default AWS config on
	// first use if nil.
	S3 ObjectGetter
}

type rawDocument struct {
	data   []byte
	format Format
}

func (src *Sources) read(ctx context.Context, location string) (*rawDocument, error) {
	u, err := url.Parse(location)
	if err != nil || len(u.Scheme) <= 1 {
		// not a URL (or a windows drive letter)
		return src.readFile(location)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return src.readHTTP(ctx, location)
	case "s3":
		return src.readS3(ctx, u)
	case "file":
		return src.readFile(u.Path)
	}
	return nil, fmt.Errorf("unsupported location scheme %q", u.Scheme)
}

func (src *Sources) readFile(path string) (*rawDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return &rawDocument{data: data, format: FormatFromName(path)}, nil
}

func (src *Sources) readHTTP(ctx context.Context, location string) (*rawDocument, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", location, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", internal.UserAgent)

	client := src.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing HTTP GET: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %v", resp.StatusCode,
			location)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	format := FormatFromName(req.URL.Path)
	if format == FormatUnknown {
		format = FormatFromContentType(resp.Header.Get("Content-Type"))
	}
	return &rawDocument{data: data, format: format}, nil
}

func (src *Sources) readS3(ctx context.Context, u *url.URL) (*rawDocument, error) {
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("s3 location %v needs a bucket and a key", u)
	}

	if src.S3 == nil {
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		src.S3 = s3.NewFromConfig(cfg)
	}

	out, err := src.S3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("getting s3 object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("reading s3 object: %w", err)
	}

	format := FormatFromName(key)
	if format == FormatUnknown {
		format = FormatFromContentType(aws.ToString(out.ContentType))
	}
	return &rawDocument{data: data, format: format}, nil
}
