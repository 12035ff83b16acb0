// Package s3 provides a small client for S3-compatible object storage.
//
// It is used to publish CA certificates so that operators of other clusters
// can fetch them when joining.
package s3
