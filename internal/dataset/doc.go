// Package dataset persists and publishes the curated prompt collection.
//
// A published dataset is a directory named "current" holding the master
// SQLite database, per-category JSON shards, a stats snapshot, and a build
// manifest. Publishing builds the whole layout in a hidden staging directory
// and swaps it into place with directory renames, so readers always see
// either the previous complete dataset or the new one, never a partial
// write.
package dataset
