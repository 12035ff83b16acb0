// Package labels builds the Kubernetes labels of rendered objects.
//
// Keys follow the app.kubernetes.io recommended label set, plus one
// crdbcerts.io key naming the cluster an object belongs to.
package labels
