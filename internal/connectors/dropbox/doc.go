// Package dropbox provides a change feed over a Dropbox account.
//
// The connector lists a folder recursively with deleted entries included and
// then follows the returned cursor with list_folder/continue. Each page is
// normalised into domain.RawChange records keyed by the lower-cased path,
// which is how Dropbox itself identifies entries.
package dropbox
