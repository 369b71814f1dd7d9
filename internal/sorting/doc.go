// Package sorting owns the sort-key vocabulary for library views and
// smart playlists.
//
// The rule engine deliberately does not know what "rating_desc" means;
// it hands the filtered entries to a Sorter through its SortFunc seam.
// Keeping the vocabulary here means the UI layer and the engine cannot
// drift apart on sort semantics.
package sorting
