// Package mediatypes defines the media kind taxonomy shared by the
// scanner, the library index, and the rule engine.
//
// A Kind is derived purely from the file extension; content sniffing is
// deliberately avoided so classification stays cheap during large scans.
package mediatypes
