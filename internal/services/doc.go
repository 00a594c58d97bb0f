// Package services composes the catalog client, the offline cache and the
// collection ledger into the flows the shell exposes: opening a set with
// network-then-offline fallback, toggling a download, and creating a
// collection that downloads its set on the way.
package services
