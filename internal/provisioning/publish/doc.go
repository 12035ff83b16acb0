// Package publish uploads the CA certificate of every created cluster to
// S3-compatible object storage. Private keys are never uploaded.
package publish
