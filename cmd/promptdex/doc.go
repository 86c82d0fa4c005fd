// Command promptdex builds the curated prompt dataset from raw captures and
// queries the published collection from the terminal or over HTTP.
package main
