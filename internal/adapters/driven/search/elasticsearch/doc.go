// Package elasticsearch implements driven.IndexSink over the Elasticsearch
// _bulk API. Documents are indexed by their derived key, so replaying a
// batch leaves the index unchanged.
package elasticsearch
